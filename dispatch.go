package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zephyrtronium/saber/command"
	"github.com/zephyrtronium/saber/message"
	"github.com/zephyrtronium/saber/spoken"
)

// dispatch runs the command invoked by a message, if any, and returns the
// name of the command run. If the message does not invoke a command that the
// sender may use, the result is the empty string and nothing happens.
func (robo *Robot) dispatch(ctx context.Context, msg *message.Received) string {
	if msg.IsBot {
		return ""
	}
	if me := robo.me.Load(); me != nil && me.ID == msg.Sender {
		return ""
	}
	name, args, ok := command.Parse(robo.prefix, msg.Text)
	if !ok {
		return ""
	}
	c, ok := robo.commands.Lookup(name)
	if !ok {
		return ""
	}
	log := slog.With(
		slog.String("trace", uuid.NewString()),
		slog.String("command", c.Name),
		slog.String("in", msg.To),
		slog.String("from", msg.Sender),
	)
	if c.OwnerOnly && (robo.owner == "" || msg.Sender != robo.owner) {
		log.InfoContext(ctx, "owner command from non-owner")
		return ""
	}
	if c.Permissions != 0 {
		p, err := robo.perms(msg)
		if err != nil {
			log.ErrorContext(ctx, "couldn't get permissions", slog.Any("err", err))
			return ""
		}
		if p&c.Permissions != c.Permissions {
			log.InfoContext(ctx, "missing permissions",
				slog.Int64("have", p),
				slog.Int64("need", c.Permissions),
			)
			robo.metrics.PermissionDenied.Observe(1, c.Name)
			return ""
		}
	}
	lim, _ := robo.limits.LoadOrNew(msg.To, robo.limit.limiter)
	t := time.Now()
	r := lim.ReserveN(t, 1)
	if d := r.DelayFrom(t); d > 0 {
		log.InfoContext(ctx, "rate limited", slog.String("delay", d.String()))
		r.CancelAt(t)
		robo.metrics.RateLimited.Observe(1, c.Name)
		return ""
	}
	log.InfoContext(ctx, "command",
		slog.String("as", name),
		slog.Any("args", args),
		slog.Time("at", msg.Time()),
	)
	robo.metrics.CommandCount.Observe(1, c.Name)
	call := command.Invocation{
		Message: msg,
		Name:    name,
		Args:    args,
	}
	c.Fn(ctx, robo.commandRobot(log, c.Name), &call)
	return c.Name
}

// reply sends a message on behalf of a command. The send is awaited; failures
// are logged and counted but never returned to the command.
func (robo *Robot) reply(ctx context.Context, log *slog.Logger, cmd string, msg message.Sent) {
	if msg.Text == "" {
		return
	}
	if err := robo.rate.Wait(ctx); err != nil {
		log.WarnContext(ctx, "couldn't wait for send rate", slog.Any("err", err))
		return
	}
	start := time.Now()
	err := robo.send(ctx, msg)
	cost := time.Since(start)
	if err != nil {
		log.WarnContext(ctx, "couldn't send message", slog.Any("err", err))
		robo.metrics.SendErrors.Observe(1)
		return
	}
	robo.metrics.SendLatency.Observe(cost.Seconds(), cmd)
	log.InfoContext(ctx, "sent", slog.String("text", msg.Text), slog.Duration("cost", cost))
	if robo.spoken == nil {
		return
	}
	rec := spoken.Message{
		Channel: msg.To,
		Command: cmd,
		Text:    msg.Text,
		Time:    start,
		Meta:    spoken.Meta{Reply: msg.Reply, Cost: cost.Nanoseconds()},
	}
	if err := spoken.Record(ctx, robo.spoken, &rec); err != nil {
		log.ErrorContext(ctx, "couldn't record sent message", slog.Any("err", err))
	}
}
