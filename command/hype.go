package command

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"gitlab.com/zephyrtronium/pick"

	"github.com/zephyrtronium/saber/message"
)

var hypes = pick.New([]pick.Case[string]{
	{E: "https://cdn.discordapp.com/attachments/102817255661772800/219514281136357376/tumblr_nr6ndeEpus1u21ng6o1_540.gif", W: 1},
	{E: "https://cdn.discordapp.com/attachments/102817255661772800/219518372839161859/tumblr_n1h2afSbCu1ttmhgqo1_500.gif", W: 1},
	{E: "https://gfycat.com/HairyFloweryBarebirdbat", W: 1},
	{E: "https://i.imgur.com/PFAQSLA.gif", W: 1},
	{E: "https://abload.de/img/ezgif-32008219442iq0i.gif", W: 1},
	{E: "https://i.imgur.com/vOVwq5o.jpg", W: 1},
	{E: "https://i.imgur.com/Ki12X4j.jpg", W: 1},
	{E: "https://media.giphy.com/media/b1o4elYH8Tqjm/giphy.gif", W: 1},
})

// Hype sends a hype train.
// No arguments. Invocations with arguments do nothing.
func Hype(ctx context.Context, robo *Robot, call *Invocation) {
	if len(call.Args) != 0 {
		robo.Log.DebugContext(ctx, "hype with args", slog.Any("args", call.Args))
		return
	}
	h := hypes.Pick(rand.Uint32())
	robo.Send(ctx, message.Format(call.Message.To, ":train2: CHOO CHOO %s", h))
}

var _ Func = Hype
