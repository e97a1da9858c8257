package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/time/rate"
)

// Load loads Robot from a TOML configuration.
func Load(ctx context.Context, r io.Reader) (*Config, *toml.MetaData, error) {
	cfg := Config{
		Prefix: ">",
		Cache: CacheCfg{
			Messages: 500,
			Users:    500,
			Limiters: 500,
		},
	}
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't decode config: %w", err)
	}
	if u := md.Undecoded(); len(u) != 0 {
		return nil, nil, fmt.Errorf("unknown config keys %v", u)
	}
	expandcfg(&cfg, os.Getenv)
	if cfg.Prefix == "" || strings.TrimSpace(cfg.Prefix) != cfg.Prefix {
		return nil, nil, fmt.Errorf("command prefix %q must be non-empty with no surrounding spaces", cfg.Prefix)
	}
	if cfg.Cache.Messages < 1 || cfg.Cache.Users < 1 || cfg.Cache.Limiters < 1 {
		return nil, nil, fmt.Errorf("cache sizes must be positive, have messages=%d users=%d limiters=%d", cfg.Cache.Messages, cfg.Cache.Users, cfg.Cache.Limiters)
	}
	return &cfg, &md, nil
}

// loadToken reads a bot token from a file.
func loadToken(file string) (string, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("couldn't read token: %w", err)
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", fmt.Errorf("token file %s is empty", file)
	}
	return tok, nil
}

func fseconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Config is the marshaled structure of Robot's configuration.
type Config struct {
	// Prefix is the text which introduces a command. Defaults to ">".
	Prefix string `toml:"prefix"`
	// Owner is the table of metadata about the owner.
	Owner Owner `toml:"owner"`
	// Discord is the configuration for connecting to Discord.
	Discord DiscordCfg `toml:"discord"`
	// Cache is the table of entity cache sizes.
	Cache CacheCfg `toml:"cache"`
	// Commands is the table of command settings.
	Commands CommandsCfg `toml:"commands"`
	// DB is the table of database connection strings.
	DB DBCfg `toml:"db"`
	// HTTP is the configuration of the HTTP API.
	HTTP HTTPCfg `toml:"http"`
}

// Owner is metadata about the bot owner.
type Owner struct {
	// ID is the Discord user ID of the owner. Owner commands are disabled if
	// it is empty.
	ID string `toml:"id"`
	// Name is the name of the owner. It does not need to be a username.
	Name string `toml:"name"`
	// Contact describes owner contact information.
	Contact string `toml:"contact"`
}

// DiscordCfg is the configuration for connecting to Discord.
type DiscordCfg struct {
	// TokenFile is the path to a file containing the bot token.
	TokenFile string `toml:"token"`
	// Rate is the global rate limit for sending messages.
	Rate Rate `toml:"rate"`
}

// CacheCfg is the configuration of the entity caches.
type CacheCfg struct {
	// Messages is the number of messages to cache. Defaults to 500.
	Messages int `toml:"messages"`
	// Users is the number of users to cache. Defaults to 500.
	Users int `toml:"users"`
	// Limiters is the number of channels whose command rate limiters are
	// retained. Defaults to 500.
	Limiters int `toml:"limiters"`
}

// CommandsCfg is the configuration for commands.
type CommandsCfg struct {
	// Rate is the rate limit for command invocations in each channel.
	Rate Rate `toml:"rate"`
	// Disable is the names of commands to disable.
	Disable []string `toml:"disable"`
}

// DBCfg is the configuration of databases.
type DBCfg struct {
	// Spoken is the DSN of the database recording sent messages.
	// If empty, sent messages are not recorded.
	Spoken string `toml:"spoken"`
}

// HTTPCfg is the configuration of the HTTP API.
type HTTPCfg struct {
	// Listen is the address on which to serve. If empty, there is no API.
	Listen string `toml:"listen"`
}

// Rate is a rate limit configuration.
type Rate struct {
	// Every is the interval in seconds at which tokens are replenished.
	// Zero or negative means no limit.
	Every float64 `toml:"every"`
	// Num is the burst size.
	Num int `toml:"num"`
}

func (r Rate) limiter() *rate.Limiter {
	n := max(r.Num, 1)
	if r.Every <= 0 {
		return rate.NewLimiter(rate.Inf, n)
	}
	return rate.NewLimiter(rate.Every(fseconds(r.Every)), n)
}

func expandcfg(cfg *Config, expand func(s string) string) {
	fields := []*string{
		&cfg.Owner.ID,
		&cfg.Owner.Name,
		&cfg.Owner.Contact,
		&cfg.Discord.TokenFile,
		&cfg.DB.Spoken,
		&cfg.HTTP.Listen,
	}
	for _, f := range fields {
		*f = os.Expand(*f, expand)
	}
}
