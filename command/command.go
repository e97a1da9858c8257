package command

import (
	"context"

	"github.com/zephyrtronium/saber/message"
)

// Invocation is a command invocation. An Invocation and its fields must not
// be modified or retained by any command.
type Invocation struct {
	// Message is the message which triggered the invocation.
	Message *message.Received
	// Name is the name or alias with which the command was invoked.
	Name string
	// Args is the whitespace-separated tokens following the command name.
	Args []string
}

// Func executes a command.
type Func func(ctx context.Context, robo *Robot, call *Invocation)
