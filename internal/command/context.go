package command

import "context"

// Embed is a structured outbound reply. Only the fields the runtime itself
// produces are modeled; richer rendering is the transport's concern.
type Embed struct {
	Title       string
	Description string
	Color       int
}

// Replier is the outbound half of the gateway connection a context replies
// through. Implementations are best-effort network senders.
type Replier interface {
	SendText(ctx context.Context, channelID, text string) error
	SendEmbed(ctx context.Context, channelID string, embed Embed) error
}

// Context is the ephemeral per-invocation state handed to a handler. It is
// owned exclusively by the single invocation and discarded afterwards.
type Context struct {
	// UserID identifies the invoking user.
	UserID string

	// UserName is the invoking user's display identity, used in incident
	// reports alongside the ID.
	UserName string

	// ChannelID identifies the originating conversation.
	ChannelID string

	// Command is the resolved command being invoked.
	Command *Command

	replier Replier
}

// NewContext builds the execution context for one invocation.
func NewContext(userID, userName, channelID string, cmd *Command, replier Replier) *Context {
	return &Context{
		UserID:    userID,
		UserName:  userName,
		ChannelID: channelID,
		Command:   cmd,
		replier:   replier,
	}
}

// Send replies with plain text to the originating conversation.
func (c *Context) Send(ctx context.Context, text string) error {
	return c.replier.SendText(ctx, c.ChannelID, text)
}

// SendEmbed replies with a structured embed to the originating conversation.
func (c *Context) SendEmbed(ctx context.Context, embed Embed) error {
	return c.replier.SendEmbed(ctx, c.ChannelID, embed)
}
