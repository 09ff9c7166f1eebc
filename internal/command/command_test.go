package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("ping"))
	assert.True(t, ValidName("Ping"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("two words"))
	assert.False(t, ValidName("tab\tname"))
}

func TestUsagef(t *testing.T) {
	err := Usagef("expected %d arguments", 2)
	require.Error(t, err)
	assert.Equal(t, "expected 2 arguments", err.Error())

	ue, ok := AsUsage(err)
	require.True(t, ok)
	assert.Equal(t, "expected 2 arguments", ue.Message)
}

func TestAsUsageSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Usagef("bad input"))
	ue, ok := AsUsage(wrapped)
	require.True(t, ok)
	assert.Equal(t, "bad input", ue.Message)

	_, ok = AsUsage(errors.New("plain fault"))
	assert.False(t, ok)
}

type recordingReplier struct {
	texts  []string
	embeds []Embed
}

func (r *recordingReplier) SendText(_ context.Context, _ string, text string) error {
	r.texts = append(r.texts, text)
	return nil
}

func (r *recordingReplier) SendEmbed(_ context.Context, _ string, embed Embed) error {
	r.embeds = append(r.embeds, embed)
	return nil
}

func TestContextRepliesToOriginChannel(t *testing.T) {
	rep := &recordingReplier{}
	cmd := &Command{Name: "ping", Run: func(context.Context, *Context, []string) error { return nil }}
	ec := NewContext("42", "tester", "chan-9", cmd, rep)

	require.NoError(t, ec.Send(context.Background(), "hello"))
	require.NoError(t, ec.SendEmbed(context.Background(), Embed{Title: "T"}))

	assert.Equal(t, []string{"hello"}, rep.texts)
	require.Len(t, rep.embeds, 1)
	assert.Equal(t, "T", rep.embeds[0].Title)
	assert.Equal(t, "chan-9", ec.ChannelID)
	assert.Same(t, cmd, ec.Command)
}
