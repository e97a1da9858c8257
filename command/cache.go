package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/zephyrtronium/saber/message"
)

// CacheStats reports the state of the bot's entity caches.
// No arguments.
func CacheStats(ctx context.Context, robo *Robot, call *Invocation) {
	var b strings.Builder
	for i, c := range robo.Caches {
		if i != 0 {
			b.WriteString("; ")
		}
		s := c.Stats()
		fmt.Fprintf(&b, "%s: %d/%d, %d hits, %d misses, %d evictions", c.Name, c.Len(), c.Cap, s.Hits, s.Misses, s.Evictions)
	}
	if b.Len() == 0 {
		b.WriteString("no caches")
	}
	robo.Send(ctx, message.Format(call.Message.To, "%s", b.String()).AsReply(call.Message.ID))
}

var _ Func = CacheStats
