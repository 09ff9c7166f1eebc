// Package ping is the smallest possible extension: a single liveness
// command.
package ping

import (
	"context"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/extension"
)

// Module implements the extension.Module interface for this package.
type Module struct{}

// OnPing is the handler for the 'ping' command.
func OnPing(ctx context.Context, ec *command.Context, _ []string) error {
	return ec.Send(ctx, "Pong!")
}

// Register registers the handlers named by this extension's manifest.
func (m *Module) Register(h *extension.Handlers, _ *extension.Deps) {
	h.Register("OnPing", OnPing)
}
