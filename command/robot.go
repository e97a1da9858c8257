package command

import (
	"context"
	"log/slog"

	"github.com/zephyrtronium/saber/lru"
	"github.com/zephyrtronium/saber/message"
)

// Robot is the bot state as is visible to commands.
type Robot struct {
	Log *slog.Logger
	// Owner is the user ID of the bot owner.
	Owner string
	// OwnerName and OwnerContact describe the owner for humans.
	OwnerName, OwnerContact string
	// Name is the bot's username. It may be empty before the bot connects.
	Name string
	// Prefix is the text which introduces a command.
	Prefix string
	// Commands is the command registry.
	Commands *Registry
	// Caches is the bot's entity caches by name.
	Caches []Cache
	// Send sends a message. Failures are handled by the implementation;
	// commands do not observe them.
	Send func(ctx context.Context, msg message.Sent)
}

// Cache is a view of an entity cache for reporting.
type Cache struct {
	Name  string
	Len   func() int
	Cap   int
	Stats func() lru.Stats
}
