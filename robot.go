package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/zephyrtronium/saber/command"
	"github.com/zephyrtronium/saber/lru"
	"github.com/zephyrtronium/saber/message"
	"github.com/zephyrtronium/saber/metrics"
)

// Robot is the overall state of the bot.
type Robot struct {
	// owner is the user ID of the owner.
	owner string
	// ownerName and ownerContact describe the owner for humans.
	ownerName, ownerContact string
	// prefix introduces commands.
	prefix string
	// commands is the command registry.
	commands *command.Registry
	// messages is the cache of recently seen messages by ID.
	messages *lru.Cache[string, *discordgo.Message]
	// users is the cache of recently seen users by ID.
	users *lru.Cache[string, *discordgo.User]
	// me is the bot's own user, set once the gateway is ready.
	me atomic.Pointer[discordgo.User]
	// discord is the Discord session. It is nil until InitDiscord.
	discord *discordgo.Session
	// send delivers a message to the chat platform.
	send func(ctx context.Context, msg message.Sent) error
	// perms returns the bot's permissions in a channel.
	perms func(msg *message.Received) (int64, error)
	// rate is the global rate limit for sending messages.
	rate *rate.Limiter
	// limits is the per-channel command rate limiters of recently active
	// channels. A channel evicted from it starts over with a full limiter.
	limits *lru.Cache[string, *rate.Limiter]
	// limit is the configuration for new per-channel limiters.
	limit Rate
	// spoken is the sent message history. It may be nil.
	spoken *sqlitex.Pool
	// metrics are the bot's metrics.
	metrics *metrics.Metrics
	// works is the worker pool for running commands.
	works chan chan func(context.Context)
}

// New creates a new robot instance. owner is the user ID of the bot owner.
// messages and users are the capacities of the respective caches.
func New(owner, prefix string, messages, users int) *Robot {
	robo := &Robot{
		owner:    owner,
		prefix:   prefix,
		commands: command.NewRegistry(),
		messages: lru.New[string, *discordgo.Message](messages),
		users:    lru.New[string, *discordgo.User](users),
		rate:     rate.NewLimiter(rate.Inf, 1),
		limits:   lru.New[string, *rate.Limiter](500),
		limit:    Rate{Every: 0, Num: 1},
		works:    make(chan chan func(context.Context), 8),
	}
	robo.send = func(ctx context.Context, msg message.Sent) error {
		return errors.New("no chat connection")
	}
	robo.perms = func(*message.Received) (int64, error) {
		return 0, errors.New("no chat connection")
	}
	robo.metrics = newMetrics(robo)
	return robo
}

// name returns the bot's username, or the empty string if the gateway has not
// yet reported it.
func (robo *Robot) name() string {
	if me := robo.me.Load(); me != nil {
		return me.Username
	}
	return ""
}

// SetOwner sets owner metadata used in self-description.
func (robo *Robot) SetOwner(name, contact string) {
	robo.ownerName = name
	robo.ownerContact = contact
}

// SetHistory sets the database in which sent messages are recorded.
func (robo *Robot) SetHistory(db *sqlitex.Pool) {
	robo.spoken = db
}

// SetRates sets the global send rate limit and the per-channel command rate
// limit configuration. A rate with a zero interval is unlimited. channels is
// the number of channels whose limiters are retained.
func (robo *Robot) SetRates(global, channel Rate, channels int) {
	robo.rate = global.limiter()
	robo.limit = channel
	robo.limits = lru.New[string, *rate.Limiter](channels)
}

// Metrics returns the bot's metrics.
func (robo *Robot) Metrics() *metrics.Metrics {
	return robo.metrics
}

// Register adds commands to the robot's registry.
func (robo *Robot) Register(specs ...command.Spec) error {
	for _, s := range specs {
		if err := robo.commands.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// Run connects to Discord and serves the HTTP API until the context is
// canceled.
func (robo *Robot) Run(ctx context.Context, listen string) error {
	group, ctx := errgroup.WithContext(ctx)
	if robo.discord != nil {
		group.Go(func() error { return robo.runDiscord(ctx) })
	}
	if listen != "" {
		group.Go(func() error { return robo.api(ctx, listen, new(http.ServeMux), robo.metrics.Collectors()) })
	}
	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		// If the first error is context canceled, then we are shutting down
		// normally in response to a sigint.
		err = nil
	}
	return err
}

// commandRobot creates the view of the robot visible to commands.
func (robo *Robot) commandRobot(log *slog.Logger, name string) *command.Robot {
	return &command.Robot{
		Log:          log,
		Owner:        robo.owner,
		OwnerName:    robo.ownerName,
		OwnerContact: robo.ownerContact,
		Name:         robo.name(),
		Prefix:       robo.prefix,
		Commands:     robo.commands,
		Caches: []command.Cache{
			{Name: "messages", Len: robo.messages.Len, Cap: robo.messages.Cap(), Stats: robo.messages.Stats},
			{Name: "users", Len: robo.users.Len, Cap: robo.users.Cap(), Stats: robo.users.Stats},
			{Name: "limiters", Len: robo.limits.Len, Cap: robo.limits.Cap(), Stats: robo.limits.Stats},
		},
		Send: func(ctx context.Context, msg message.Sent) {
			robo.reply(ctx, log, name, msg)
		},
	}
}

// enqueue runs work on a pooled goroutine.
func (robo *Robot) enqueue(ctx context.Context, work func(context.Context)) {
	var w chan func(context.Context)
	// Get a worker if one exists. Otherwise, spawn a new one.
	select {
	case w = <-robo.works:
	default:
		w = make(chan func(context.Context), 1)
		go worker(ctx, robo.works, w)
	}
	// Send it work.
	select {
	case <-ctx.Done():
		return
	case w <- work:
	}
}

// worker runs works for a while. The provided context is passed to each work.
func worker(ctx context.Context, works chan chan func(context.Context), ch chan func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case work := <-ch:
			work(ctx)
			// Replace ourselves in the pool if it needs additional capacity.
			// Otherwise, we're done.
			select {
			case works <- ch:
			default:
				return
			}
		}
	}
}
