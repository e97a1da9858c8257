package command

import (
	"context"
	"strings"

	"github.com/zephyrtronium/saber/message"
)

// About describes the bot and its owner.
// No arguments.
func About(ctx context.Context, robo *Robot, call *Invocation) {
	var b strings.Builder
	b.WriteString("I'm ")
	if robo.Name != "" {
		b.WriteString(robo.Name)
		b.WriteString(", ")
	}
	b.WriteString("a bot")
	if robo.OwnerName != "" {
		b.WriteString(" run by ")
		b.WriteString(robo.OwnerName)
		if robo.OwnerContact != "" {
			b.WriteString(" (")
			b.WriteString(robo.OwnerContact)
			b.WriteByte(')')
		}
	}
	b.WriteString(". Try `")
	b.WriteString(robo.Prefix)
	b.WriteString("help` for commands.")
	robo.Send(ctx, message.Format(call.Message.To, "%s", b.String()))
}

var _ Func = About
