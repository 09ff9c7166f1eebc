// Package info reports runtime facts about the instance. The uptime command
// is hidden: invokable, but left out of discoverability listings.
package info

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/extension"
)

// Module implements the extension.Module interface for this package.
type Module struct {
	started time.Time
}

// Register registers the handlers named by this extension's manifest.
func (m *Module) Register(h *extension.Handlers, deps *extension.Deps) {
	if m.started.IsZero() {
		m.started = time.Now()
	}

	h.Register("OnAbout", func(ctx context.Context, ec *command.Context, _ []string) error {
		return ec.SendEmbed(ctx, command.Embed{
			Title: "About",
			Description: fmt.Sprintf("Instance %d, serving %d commands.",
				deps.Instance, deps.Registry.Count()),
			Color: 0xDEADBF,
		})
	})

	h.Register("OnUptime", func(ctx context.Context, ec *command.Context, _ []string) error {
		return ec.Send(ctx, fmt.Sprintf("Up %s", time.Since(m.started).Round(time.Second)))
	})
}
