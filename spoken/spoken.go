// Package spoken records messages sent by the bot.
package spoken

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Meta is metadata that may be associated with a sent message.
type Meta struct {
	// Reply is the ID of the message to which the sent message replied.
	Reply string `json:"reply,omitzero"`
	// Cost is the time in nanoseconds spent sending the message.
	Cost int64 `json:"cost,omitzero"`
}

// Message is a recorded message.
type Message struct {
	Channel string    `json:"channel"`
	Command string    `json:"command"`
	Text    string    `json:"text"`
	Time    time.Time `json:"time"`
	Meta    Meta      `json:"meta,omitzero"`
}

// take gets a connection from db. The returned function releases it.
func take[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB) (*sqlite.Conn, func(), error) {
	switch db := any(db).(type) {
	case *sqlite.Conn:
		return db, func() {}, nil
	case *sqlitex.Pool:
		conn, err := db.Take(ctx)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { db.Put(conn) }, nil
	}
	panic("unreachable")
}

// Record records a message sent by a command.
func Record[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB, msg *Message) error {
	conn, put, err := take(ctx, db)
	if err != nil {
		return fmt.Errorf("couldn't get conn to record message: %w", err)
	}
	defer put()
	md, err := json.Marshal(&msg.Meta)
	if err != nil {
		// Should be impossible. Explode loudly.
		go panic(fmt.Errorf("spoken: couldn't marshal metadata %#v: %w", msg.Meta, err))
	}
	const insert = `INSERT INTO spoken (channel, command, msg, time, meta) VALUES (?, ?, ?, ?, ?)`
	opts := sqlitex.ExecOptions{
		Args: []any{msg.Channel, msg.Command, msg.Text, msg.Time.UnixNano(), string(md)},
	}
	if err := sqlitex.Execute(conn, insert, &opts); err != nil {
		return fmt.Errorf("couldn't insert spoken message: %w", err)
	}
	return nil
}

// Recent obtains up to n of the most recent messages sent to a channel,
// newest first.
func Recent[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB, channel string, n int) ([]Message, error) {
	conn, put, err := take(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("couldn't get conn to find messages: %w", err)
	}
	defer put()
	const sel = `SELECT command, msg, time, meta FROM spoken WHERE channel = ? ORDER BY time DESC, rowid DESC LIMIT ?`
	r := make([]Message, 0, n)
	opts := sqlitex.ExecOptions{
		Args: []any{channel, n},
		ResultFunc: func(st *sqlite.Stmt) error {
			m := Message{
				Channel: channel,
				Command: st.ColumnText(0),
				Text:    st.ColumnText(1),
				Time:    time.Unix(0, st.ColumnInt64(2)),
			}
			if md := st.ColumnText(3); md != "" {
				if err := json.Unmarshal([]byte(md), &m.Meta); err != nil {
					return fmt.Errorf("couldn't decode metadata: %w", err)
				}
			}
			r = append(r, m)
			return nil
		},
	}
	if err := sqlitex.Execute(conn, sel, &opts); err != nil {
		return nil, fmt.Errorf("couldn't find messages: %w", err)
	}
	return r, nil
}

//go:embed schema.sql
var schemaSQL string

// Init initializes an SQLite DB to record sent messages.
func Init[DB *sqlitex.Pool | *sqlite.Conn](ctx context.Context, db DB) error {
	conn, put, err := take(ctx, db)
	if err != nil {
		return fmt.Errorf("couldn't get conn to initialize spoken messages: %w", err)
	}
	defer put()
	if err := sqlitex.ExecuteScript(conn, schemaSQL, nil); err != nil {
		return fmt.Errorf("couldn't initialize spoken messages schema: %w", err)
	}
	return nil
}
