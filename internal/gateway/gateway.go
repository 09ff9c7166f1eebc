// Package gateway defines the boundary to the real-time transport that
// delivers inbound text events and carries outbound replies. Event delivery,
// heartbeating, and reconnects are owned by the underlying client library;
// this package only decodes messages and forwards replies.
package gateway

import (
	"context"

	"github.com/vk/shardbotgo/internal/command"
)

// Message is one decoded inbound text event from a shard connection.
type Message struct {
	SenderID    string `json:"sender_id"`
	SenderName  string `json:"sender_name"`
	ChannelID   string `json:"channel_id"`
	Content     string `json:"content"`
	SenderIsBot bool   `json:"sender_is_bot"`
}

// Conn is one established shard connection. Messages delivers decoded
// inbound events; the Replier half sends outbound text and embeds.
type Conn interface {
	command.Replier

	// Messages returns the channel of decoded inbound events for this
	// shard. The channel is not closed on Close; consumers select on their
	// own context.
	Messages() <-chan Message

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// Transport dials shard connections. One Dial per owned shard ID.
type Transport interface {
	Dial(ctx context.Context, shardID int) (Conn, error)
}
