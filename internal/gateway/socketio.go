package gateway

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// messageEvent is the event name both directions share on the wire.
const messageEvent = "message"

// dialTimeout caps how long Dial waits for the initial connection when the
// caller's context has no earlier deadline.
const dialTimeout = 15 * time.Second

// SocketIO dials one socket.io connection per shard. The shard identity is
// carried in the handshake query so the gateway can route the shard's
// partition of events to this connection.
type SocketIO struct {
	rawURL             string
	shardCount         int
	insecureSkipVerify bool
}

// NewSocketIO creates a transport for the given gateway URL.
func NewSocketIO(rawURL string, shardCount int, insecureSkipVerify bool) *SocketIO {
	return &SocketIO{
		rawURL:             rawURL,
		shardCount:         shardCount,
		insecureSkipVerify: insecureSkipVerify,
	}
}

// Dial establishes the connection for one shard and starts decoding inbound
// events.
func (t *SocketIO) Dial(ctx context.Context, shardID int) (Conn, error) {
	logger := ctxlog.FromContext(ctx).With("transport", "socketio", "shardID", shardID)
	logger.Info("Dialing gateway shard...")

	parsedURL, err := url.Parse(t.rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gateway URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetQuery(url.Values{
		"shard_id":    {strconv.Itoa(shardID)},
		"shard_count": {strconv.Itoa(t.shardCount)},
	})
	if t.insecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	c := &socketConn{
		io:      io,
		shardID: shardID,
		msgs:    make(chan Message, 64),
		done:    make(chan struct{}),
	}

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Shard connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("connect_error: %v", errs[0])
		}
		connectChan <- err
	})
	io.On(types.EventName(messageEvent), func(data ...any) {
		if len(data) == 0 {
			return
		}
		msg, err := decodeMessage(data[0])
		if err != nil {
			logger.Warn("Dropping undecodable gateway event.", "error", err)
			return
		}
		select {
		case c.msgs <- msg:
		case <-c.done:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("shard %d connection failed: %w", shardID, err)
		}
		return c, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while connecting shard %d", shardID)
	case <-time.After(dialTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out connecting shard %d", shardID)
	}
}

// socketConn is one live shard connection.
type socketConn struct {
	io      *socket.Socket
	shardID int
	msgs    chan Message

	closeOnce sync.Once
	done      chan struct{}
}

// Messages implements Conn.
func (c *socketConn) Messages() <-chan Message {
	return c.msgs
}

// SendText implements command.Replier.
func (c *socketConn) SendText(_ context.Context, channelID, text string) error {
	return c.io.Emit(messageEvent, map[string]any{
		"channel_id": channelID,
		"content":    text,
	})
}

// SendEmbed implements command.Replier.
func (c *socketConn) SendEmbed(_ context.Context, channelID string, embed command.Embed) error {
	return c.io.Emit(messageEvent, map[string]any{
		"channel_id": channelID,
		"embed": map[string]any{
			"title":       embed.Title,
			"description": embed.Description,
			"color":       embed.Color,
		},
	})
}

// Close implements Conn.
func (c *socketConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.io.Disconnect()
	})
	return nil
}

// decodeMessage converts a raw socket.io event payload into a Message. The
// server may deliver a decoded map or a pre-encoded JSON document.
func decodeMessage(raw any) (Message, error) {
	var msg Message
	switch v := raw.(type) {
	case []byte:
		return msg, json.Unmarshal(v, &msg)
	case string:
		return msg, json.Unmarshal([]byte(v), &msg)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return msg, err
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	return msg, nil
}
