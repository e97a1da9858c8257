package main_test

import (
	"context"
	_ "embed"
	"strings"
	"testing"

	main "github.com/zephyrtronium/saber"
)

//go:embed example.toml
var exampleToml string

func eqcase[T comparable](t *testing.T, name string, val T, eq T) {
	t.Helper()
	if val != eq {
		t.Errorf("wrong %s: want %#v, got %#v", name, eq, val)
	}
}

func TestExampleConfig(t *testing.T) {
	t.Setenv("SABER_OWNER", "51421897")
	t.Setenv("HOME", "/home/saber")
	cfg, _, err := main.Load(context.Background(), strings.NewReader(exampleToml))
	if err != nil {
		t.Fatalf("failed to load example.toml: %v", err)
	}

	eqcase(t, "Prefix", cfg.Prefix, ">")
	eqcase(t, "Owner.ID", cfg.Owner.ID, "51421897")
	eqcase(t, "Owner.Name", cfg.Owner.Name, "zephyrtronium")
	eqcase(t, "Owner.Contact", cfg.Owner.Contact, "DMs open")
	eqcase(t, "Discord.TokenFile", cfg.Discord.TokenFile, "/home/saber/.config/saber/token")
	eqcase(t, "Discord.Rate.Every", cfg.Discord.Rate.Every, 1)
	eqcase(t, "Discord.Rate.Num", cfg.Discord.Rate.Num, 5)
	eqcase(t, "Cache.Messages", cfg.Cache.Messages, 500)
	eqcase(t, "Cache.Users", cfg.Cache.Users, 500)
	eqcase(t, "Cache.Limiters", cfg.Cache.Limiters, 500)
	eqcase(t, "Commands.Rate.Every", cfg.Commands.Rate.Every, 1.5)
	eqcase(t, "Commands.Rate.Num", cfg.Commands.Rate.Num, 2)
	eqcase(t, "len(Commands.Disable)", len(cfg.Commands.Disable), 0)
	eqcase(t, "DB.Spoken", cfg.DB.Spoken, "file:/home/saber/.local/share/saber/spoken.db")
	eqcase(t, "HTTP.Listen", cfg.HTTP.Listen, ":4959")
}

func TestConfigDefaults(t *testing.T) {
	cfg, _, err := main.Load(context.Background(), strings.NewReader(`[owner]
id = "1"
`))
	if err != nil {
		t.Fatalf("failed to load minimal config: %v", err)
	}
	eqcase(t, "Prefix", cfg.Prefix, ">")
	eqcase(t, "Cache.Messages", cfg.Cache.Messages, 500)
	eqcase(t, "Cache.Users", cfg.Cache.Users, 500)
	eqcase(t, "Cache.Limiters", cfg.Cache.Limiters, 500)
	eqcase(t, "HTTP.Listen", cfg.HTTP.Listen, "")
}

func TestConfigInvalid(t *testing.T) {
	cases := []struct {
		name string
		toml string
	}{
		{"zero-cache", "[cache]\nmessages = 0\n"},
		{"negative-cache", "[cache]\nusers = -1\n"},
		{"zero-limiters", "[cache]\nlimiters = 0\n"},
		{"empty-prefix", `prefix = ""`},
		{"spaced-prefix", `prefix = "> "`},
		{"unknown-key", `prefxi = "!"`},
		{"syntax", `prefix = `},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := main.Load(context.Background(), strings.NewReader(c.toml))
			if err == nil {
				t.Errorf("no error loading %q", c.toml)
			}
		})
	}
}
