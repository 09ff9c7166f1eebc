// Package echo repeats the invoking user's text back at them.
package echo

import (
	"context"
	"strings"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/extension"
)

// Module implements the extension.Module interface for this package.
type Module struct{}

// OnEcho is the handler for the 'echo' command.
func OnEcho(ctx context.Context, ec *command.Context, args []string) error {
	if len(args) == 0 {
		return command.Usagef("echo requires text to repeat")
	}
	return ec.Send(ctx, strings.Join(args, " "))
}

// Register registers the handlers named by this extension's manifest.
func (m *Module) Register(h *extension.Handlers, _ *extension.Deps) {
	h.Register("OnEcho", OnEcho)
}
