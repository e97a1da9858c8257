package command

import (
	"context"
	"strings"

	"github.com/zephyrtronium/saber/message"
)

// Help describes commands.
//   - With no arguments, lists enabled commands by category.
//   - With one argument, describes that command.
func Help(ctx context.Context, robo *Robot, call *Invocation) {
	if len(call.Args) == 0 {
		robo.Send(ctx, message.Format(call.Message.To, "%s", listing(robo.Prefix, robo.Commands.All())))
		return
	}
	name := strings.TrimPrefix(call.Args[0], robo.Prefix)
	c, ok := robo.Commands.Lookup(name)
	if !ok || (c.OwnerOnly && call.Message.Sender != robo.Owner) {
		robo.Send(ctx, message.Format(call.Message.To, "No command named %q.", name).AsReply(call.Message.ID))
		return
	}
	robo.Send(ctx, message.Format(call.Message.To, "%s", describe(robo.Prefix, c)).AsReply(call.Message.ID))
}

// listing formats a list of commands grouped by category.
// Owner-only commands are omitted.
func listing(prefix string, cmds []Spec) string {
	var b strings.Builder
	cat := ""
	for _, c := range cmds {
		if c.OwnerOnly {
			continue
		}
		if b.Len() == 0 || c.Category != cat {
			if b.Len() != 0 {
				b.WriteByte('\n')
			}
			cat = c.Category
			b.WriteString("**")
			b.WriteString(cat)
			b.WriteString("**:")
		}
		b.WriteString(" `")
		b.WriteString(prefix)
		b.WriteString(c.Name)
		b.WriteByte('`')
	}
	return b.String()
}

// describe formats the full help for a command.
func describe(prefix string, c *Spec) string {
	var b strings.Builder
	b.WriteByte('`')
	b.WriteString(prefix)
	b.WriteString(c.Name)
	if c.Usage != "" {
		b.WriteByte(' ')
		b.WriteString(c.Usage)
	}
	b.WriteByte('`')
	if len(c.Aliases) != 0 {
		b.WriteString(" (aliases: ")
		b.WriteString(strings.Join(c.Aliases, ", "))
		b.WriteByte(')')
	}
	if c.Help != "" {
		b.WriteString(" ")
		b.WriteString(c.Help)
	}
	return b.String()
}

var _ Func = Help
