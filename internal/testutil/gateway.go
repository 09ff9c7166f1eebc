package testutil

import (
	"context"
	"sync"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/gateway"
)

// SentText is one recorded plain-text reply.
type SentText struct {
	ChannelID string
	Text      string
}

// SentEmbed is one recorded embed reply.
type SentEmbed struct {
	ChannelID string
	Embed     command.Embed
}

// FakeConn is an in-memory gateway.Conn. Tests push inbound events through
// In and inspect recorded replies.
type FakeConn struct {
	// In is the inbound event channel handed to consumers via Messages.
	In chan gateway.Message

	// SendErr, when set, is returned by every send.
	SendErr error

	mu     sync.Mutex
	texts  []SentText
	embeds []SentEmbed
	closed bool
}

// NewFakeConn creates a connection with a buffered inbound channel.
func NewFakeConn() *FakeConn {
	return &FakeConn{In: make(chan gateway.Message, 16)}
}

// Messages implements gateway.Conn.
func (c *FakeConn) Messages() <-chan gateway.Message {
	return c.In
}

// SendText implements command.Replier.
func (c *FakeConn) SendText(_ context.Context, channelID, text string) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, SentText{ChannelID: channelID, Text: text})
	return nil
}

// SendEmbed implements command.Replier.
func (c *FakeConn) SendEmbed(_ context.Context, channelID string, embed command.Embed) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeds = append(c.embeds, SentEmbed{ChannelID: channelID, Embed: embed})
	return nil
}

// Close implements gateway.Conn.
func (c *FakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Texts returns a snapshot of recorded plain-text replies.
func (c *FakeConn) Texts() []SentText {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SentText, len(c.texts))
	copy(out, c.texts)
	return out
}

// Embeds returns a snapshot of recorded embed replies.
func (c *FakeConn) Embeds() []SentEmbed {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SentEmbed, len(c.embeds))
	copy(out, c.embeds)
	return out
}

// FakeTransport hands out one FakeConn per dialed shard.
type FakeTransport struct {
	// DialErr, when set, fails every Dial.
	DialErr error

	// DialErrs fails dialing specific shard IDs.
	DialErrs map[int]error

	mu    sync.Mutex
	conns map[int]*FakeConn
}

// NewFakeTransport creates an empty transport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{conns: make(map[int]*FakeConn)}
}

// Dial implements gateway.Transport.
func (t *FakeTransport) Dial(_ context.Context, shardID int) (gateway.Conn, error) {
	if t.DialErr != nil {
		return nil, t.DialErr
	}
	if err, ok := t.DialErrs[shardID]; ok {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	conn := NewFakeConn()
	t.conns[shardID] = conn
	return conn, nil
}

// Conn returns the connection dialed for shardID, if any.
func (t *FakeTransport) Conn(shardID int) (*FakeConn, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	conn, ok := t.conns[shardID]
	return conn, ok
}

// ConnCount returns how many shards have been dialed.
func (t *FakeTransport) ConnCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}
