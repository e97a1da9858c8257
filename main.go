package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/zephyrtronium/saber/lru"
	"github.com/zephyrtronium/saber/metrics"
	"github.com/zephyrtronium/saber/spoken"
)

var app = cli.Command{
	Name:  "saber",
	Usage: "Discord chat bot",

	Flags: []cli.Flag{
		&flagConfig,
		&flagLog,
		&flagLogFormat,
	},
	Commands: []*cli.Command{
		{
			Name:   "commands",
			Usage:  "List the bot's commands without connecting",
			Action: cliCommands,
		},
	},
	Action: cliRun,

	Authors: []any{
		"Branden J Brown  @zephyrtronium",
	},
	Copyright: "Copyright 2024 Branden J Brown",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := app.Run(ctx, os.Args)
	if err != nil {
		fmt.Println(err)
	}
}

// load loads the config file named by the command flags and creates a robot
// with all commands registered.
func load(ctx context.Context, cmd *cli.Command) (*Robot, *Config, error) {
	r, err := os.Open(cmd.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't open config file: %w", err)
	}
	cfg, _, err := Load(ctx, r)
	r.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't load config: %w", err)
	}
	robo := New(cfg.Owner.ID, cfg.Prefix, cfg.Cache.Messages, cfg.Cache.Users)
	robo.SetOwner(cfg.Owner.Name, cfg.Owner.Contact)
	robo.SetRates(cfg.Discord.Rate, cfg.Commands.Rate, cfg.Cache.Limiters)
	if err := robo.Register(builtins...); err != nil {
		return nil, nil, fmt.Errorf("couldn't register commands: %w", err)
	}
	for _, name := range cfg.Commands.Disable {
		if !robo.commands.Disable(name) {
			slog.WarnContext(ctx, "no such command to disable", slog.String("name", name))
		}
	}
	if cfg.Owner.ID == "" {
		slog.WarnContext(ctx, "no owner information; continuing with owner commands disabled")
	}
	return robo, cfg, nil
}

func cliRun(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	robo, cfg, err := load(ctx, cmd)
	if err != nil {
		return err
	}
	if cfg.DB.Spoken != "" {
		slog.DebugContext(ctx, "spoken history db", slog.String("path", cfg.DB.Spoken))
		db, err := sqlitex.NewPool(cfg.DB.Spoken, sqlitex.PoolOptions{})
		if err != nil {
			return fmt.Errorf("couldn't open spoken history db: %w", err)
		}
		defer db.Close()
		if err := spoken.Init(ctx, db); err != nil {
			return err
		}
		robo.SetHistory(db)
	}
	if err := robo.InitDiscord(ctx, cfg.Discord); err != nil {
		return err
	}
	return robo.Run(ctx, cfg.HTTP.Listen)
}

func cliCommands(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	robo, _, err := load(ctx, cmd)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALIASES\tCATEGORY\tHELP")
	for _, c := range robo.commands.All() {
		name := robo.prefix + c.Name
		if c.Usage != "" {
			name += " " + c.Usage
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, strings.Join(c.Aliases, ","), c.Category, c.Help)
	}
	return w.Flush()
}

var (
	flagConfig = cli.StringFlag{
		Name:       "config",
		Required:   true,
		Usage:      "TOML config file",
		Persistent: true,
		Action: func(ctx context.Context, cmd *cli.Command, s string) error {
			i, err := os.Stat(s)
			if err != nil {
				return err
			}
			if !i.Mode().IsRegular() {
				return errors.New("config must be a regular file")
			}
			return nil
		},
	}

	flagLog = cli.StringFlag{
		Name:       "log",
		Usage:      "Logging level, one of debug, info, warn, error",
		Value:      "info",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			var l slog.Level
			return l.UnmarshalText([]byte(s))
		},
	}

	flagLogFormat = cli.StringFlag{
		Name:       "log-format",
		Usage:      "Logging format, either text or json",
		Value:      "text",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			switch strings.ToLower(s) {
			case "text", "json":
				return nil
			default:
				return errors.New("unknown logging format")
			}
		},
	}
)

func loggerFromFlags(cmd *cli.Command) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cmd.String("log"))); err != nil {
		panic(err)
	}
	var h slog.Handler
	switch strings.ToLower(cmd.String("log-format")) {
	case "text":
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	case "json":
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	}
	return slog.New(h)
}

// metrics configuration
func newMetrics(robo *Robot) *metrics.Metrics {
	m := &metrics.Metrics{
		MessagesCount: metrics.NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "saber",
					Subsystem: "discord",
					Name:      "messages",
					Help:      "Number of messages received from the Discord gateway.",
				},
			),
		),
		CommandCount: metrics.NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "saber",
					Subsystem: "commands",
					Name:      "invocations",
					Help:      "Number of commands executed.",
				},
				[]string{"command"},
			),
		),
		PermissionDenied: metrics.NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "saber",
					Subsystem: "commands",
					Name:      "permission_denied",
					Help:      "Number of commands not executed because the bot lacked permissions.",
				},
				[]string{"command"},
			),
		),
		RateLimited: metrics.NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "saber",
					Subsystem: "commands",
					Name:      "rate_limited",
					Help:      "Number of commands dropped by per-channel rate limits.",
				},
				[]string{"command"},
			),
		),
		SendErrors: metrics.NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "saber",
					Subsystem: "discord",
					Name:      "send_errors",
					Help:      "Number of messages which failed to send.",
				},
			),
		),
		SendLatency: metrics.NewPromObserverVec(
			prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10},
					Namespace: "saber",
					Subsystem: "discord",
					Name:      "send_latency",
					Help:      "How long it takes to send a message in seconds",
				},
				[]string{"command"},
			),
		),
	}
	m.Caches = append(m.Caches, metrics.CacheCollectors("messages", robo.messages.Len, robo.messages.Stats)...)
	m.Caches = append(m.Caches, metrics.CacheCollectors("users", robo.users.Len, robo.users.Stats)...)
	// Limiters are replaced by SetRates, so read them through the robot.
	m.Caches = append(m.Caches, metrics.CacheCollectors("limiters",
		func() int { return robo.limits.Len() },
		func() lru.Stats { return robo.limits.Stats() },
	)...)
	return m
}
