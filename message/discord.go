package message

import "github.com/bwmarrin/discordgo"

// FromDiscord adapts a Discord message.
// The author may be absent on some partial messages, e.g. from updates.
func FromDiscord(m *discordgo.Message) *Received {
	r := Received{
		ID:        m.ID,
		To:        m.ChannelID,
		Guild:     m.GuildID,
		Text:      m.Content,
		Timestamp: m.Timestamp.UnixMilli(),
	}
	if m.Author != nil {
		r.Sender = m.Author.ID
		r.Name = m.Author.Username
		if m.Author.GlobalName != "" {
			r.Name = m.Author.GlobalName
		}
		r.IsBot = m.Author.Bot
	}
	if m.Member != nil && m.Member.Nick != "" {
		r.Name = m.Member.Nick
	}
	return &r
}
