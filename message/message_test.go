package message_test

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/saber/message"
)

func TestFromDiscord(t *testing.T) {
	ts := time.UnixMilli(1662882968379)
	cases := []struct {
		name string
		msg  *discordgo.Message
		want *message.Received
	}{
		{
			name: "guild",
			msg: &discordgo.Message{
				ID:        "1",
				ChannelID: "2",
				GuildID:   "3",
				Content:   ">hype",
				Timestamp: ts,
				Author:    &discordgo.User{ID: "4", Username: "bocchi"},
			},
			want: &message.Received{
				ID:        "1",
				To:        "2",
				Guild:     "3",
				Sender:    "4",
				Name:      "bocchi",
				Text:      ">hype",
				Timestamp: 1662882968379,
			},
		},
		{
			name: "global-name",
			msg: &discordgo.Message{
				ID:        "1",
				ChannelID: "2",
				Timestamp: ts,
				Author:    &discordgo.User{ID: "4", Username: "bocchi", GlobalName: "Hitori"},
			},
			want: &message.Received{
				ID:        "1",
				To:        "2",
				Sender:    "4",
				Name:      "Hitori",
				Timestamp: 1662882968379,
			},
		},
		{
			name: "nick",
			msg: &discordgo.Message{
				ID:        "1",
				ChannelID: "2",
				GuildID:   "3",
				Timestamp: ts,
				Author:    &discordgo.User{ID: "4", Username: "bocchi", GlobalName: "Hitori"},
				Member:    &discordgo.Member{Nick: "guitarhero"},
			},
			want: &message.Received{
				ID:        "1",
				To:        "2",
				Guild:     "3",
				Sender:    "4",
				Name:      "guitarhero",
				Timestamp: 1662882968379,
			},
		},
		{
			name: "bot",
			msg: &discordgo.Message{
				ID:        "1",
				ChannelID: "2",
				Timestamp: ts,
				Author:    &discordgo.User{ID: "5", Username: "nijika", Bot: true},
			},
			want: &message.Received{
				ID:        "1",
				To:        "2",
				Sender:    "5",
				Name:      "nijika",
				Timestamp: 1662882968379,
				IsBot:     true,
			},
		},
		{
			name: "no-author",
			msg:  &discordgo.Message{ID: "1", ChannelID: "2", Timestamp: ts},
			want: &message.Received{ID: "1", To: "2", Timestamp: 1662882968379},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := message.FromDiscord(c.msg)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("wrong message (-want +got):\n%s", diff)
			}
			if !got.Time().Equal(ts) {
				t.Errorf("wrong time: want %v, got %v", ts, got.Time())
			}
		})
	}
}

func TestFormat(t *testing.T) {
	got := message.Format("chan", "%s %d ", "train", 2).AsReply("msg")
	want := message.Sent{Reply: "msg", To: "chan", Text: "train 2"}
	if got != want {
		t.Errorf("wrong sent message: want %+v, got %+v", want, got)
	}
}
