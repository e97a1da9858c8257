package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/zephyrtronium/saber/message"
)

// allPermissions is the permission set in direct messages, where permissions
// do not apply.
const allPermissions int64 = -1

// InitDiscord creates the Discord session and registers event handlers.
// The connection is opened by Run.
func (robo *Robot) InitDiscord(ctx context.Context, cfg DiscordCfg) error {
	tok, err := loadToken(cfg.TokenFile)
	if err != nil {
		return err
	}
	session, err := discordgo.New("Bot " + tok)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentDirectMessages | discordgo.IntentMessageContent
	// Handle events in order. Commands run on the worker pool so that they
	// don't hold up the event stream.
	session.SyncEvents = true

	session.AddHandler(func(session *discordgo.Session, event *discordgo.Ready) {
		robo.onDiscordReady(ctx, event)
	})
	session.AddHandler(func(session *discordgo.Session, event *discordgo.MessageCreate) {
		robo.onDiscordMessage(ctx, event)
	})
	session.AddHandler(func(session *discordgo.Session, event *discordgo.MessageUpdate) {
		robo.onDiscordUpdate(ctx, event)
	})
	session.AddHandler(func(session *discordgo.Session, event *discordgo.MessageDelete) {
		robo.onDiscordDelete(ctx, event)
	})

	robo.discord = session
	robo.send = robo.sendDiscord
	robo.perms = robo.discordPerms
	return nil
}

// runDiscord holds the Discord websocket connection open until the context
// is canceled.
func (robo *Robot) runDiscord(ctx context.Context) error {
	if err := robo.discord.Open(); err != nil {
		return fmt.Errorf("couldn't open Discord connection: %w", err)
	}
	<-ctx.Done()
	if err := robo.discord.Close(); err != nil {
		slog.ErrorContext(ctx, "couldn't close Discord connection", slog.Any("err", err))
	}
	return ctx.Err()
}

func (robo *Robot) onDiscordReady(ctx context.Context, event *discordgo.Ready) {
	if event.User == nil {
		return
	}
	robo.me.Store(event.User)
	robo.users.Put(event.User.ID, event.User)
	slog.InfoContext(ctx, "Discord ready",
		slog.String("id", event.User.ID),
		slog.String("name", event.User.Username),
		slog.Int("guilds", len(event.Guilds)),
	)
}

func (robo *Robot) onDiscordMessage(ctx context.Context, event *discordgo.MessageCreate) {
	if event.Message == nil {
		return
	}
	robo.metrics.MessagesCount.Observe(1)
	robo.observe(event.Message)
	msg := message.FromDiscord(event.Message)
	// Ignore messages sent by bots, including our own.
	if msg.IsBot || !strings.HasPrefix(msg.Text, robo.prefix) {
		return
	}
	robo.enqueue(ctx, func(ctx context.Context) { robo.dispatch(ctx, msg) })
}

// observe caches a message and its author.
func (robo *Robot) observe(m *discordgo.Message) {
	robo.messages.Put(m.ID, m)
	if m.Author != nil {
		robo.users.Put(m.Author.ID, m.Author)
	}
}

func (robo *Robot) onDiscordUpdate(ctx context.Context, event *discordgo.MessageUpdate) {
	if event.Message == nil {
		return
	}
	old, ok := robo.messages.Get(event.ID)
	if !ok {
		if event.Author != nil {
			robo.observe(event.Message)
		}
		return
	}
	// Cached messages may be in use elsewhere, so replace rather than modify.
	m := *old
	m.Content = event.Content
	m.EditedTimestamp = event.EditedTimestamp
	robo.messages.Put(m.ID, &m)
	slog.DebugContext(ctx, "message edited", slog.String("id", m.ID), slog.String("in", m.ChannelID))
}

func (robo *Robot) onDiscordDelete(ctx context.Context, event *discordgo.MessageDelete) {
	if event.Message == nil {
		return
	}
	m, ok := robo.messages.Remove(event.ID)
	if !ok {
		slog.DebugContext(ctx, "uncached message deleted", slog.String("id", event.ID), slog.String("in", event.ChannelID))
		return
	}
	var from string
	if m.Author != nil {
		from = m.Author.ID
	}
	slog.InfoContext(ctx, "message deleted",
		slog.String("id", m.ID),
		slog.String("in", m.ChannelID),
		slog.String("from", from),
		slog.String("text", m.Content),
	)
}

// sendDiscord sends a message through the Discord REST API.
func (robo *Robot) sendDiscord(ctx context.Context, msg message.Sent) error {
	m := &discordgo.MessageSend{
		Content: msg.Text,
		// Never ping anyone.
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if msg.Reply != "" {
		m.Reference = &discordgo.MessageReference{
			MessageID: msg.Reply,
			ChannelID: msg.To,
		}
	}
	_, err := robo.discord.ChannelMessageSendComplex(msg.To, m, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send Discord message: %w", err)
	}
	return nil
}

// discordPerms gets the bot's permissions in the channel where a message was
// sent.
func (robo *Robot) discordPerms(msg *message.Received) (int64, error) {
	if msg.Guild == "" {
		return allPermissions, nil
	}
	me := robo.me.Load()
	if me == nil {
		return 0, errors.New("not ready")
	}
	p, err := robo.discord.State.UserChannelPermissions(me.ID, msg.To)
	if err == nil {
		return p, nil
	}
	// The state may not have the channel, e.g. for threads. Ask the API.
	p, err = robo.discord.UserChannelPermissions(me.ID, msg.To)
	if err != nil {
		return 0, fmt.Errorf("couldn't get permissions in %s: %w", msg.To, err)
	}
	return p, nil
}
