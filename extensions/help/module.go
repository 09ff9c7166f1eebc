// Package help exposes command discoverability: the visible command list and
// per-command usage text.
package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/extension"
)

// Module implements the extension.Module interface for this package.
type Module struct{}

// Register registers the handlers named by this extension's manifest. The
// help handler closes over the live registry so its output always reflects
// the currently loaded extensions.
func (m *Module) Register(h *extension.Handlers, deps *extension.Deps) {
	reg := deps.Registry

	h.Register("OnHelp", func(ctx context.Context, ec *command.Context, args []string) error {
		if len(args) == 0 {
			names := reg.VisibleNames()
			msg := fmt.Sprintf("```\n%s\n\nn!help <command>\n```", strings.Join(names, ", "))
			return ec.Send(ctx, msg)
		}

		cmd, ok := reg.Lookup(args[0])
		if !ok {
			return command.Usagef("no command named %q", args[0])
		}

		msg := "```\nn!" + cmd.Name + "\n\n"
		if cmd.Help != "" {
			msg += cmd.Help
		}
		msg += "\n```"
		return ec.Send(ctx, msg)
	})
}
