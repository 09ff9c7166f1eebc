// Package command defines the invokable command unit, the per-invocation
// execution context handed to handlers, and the distinguished user-input
// error kind the dispatcher pattern-matches on.
package command

import (
	"context"
	"strings"
)

// HandlerFunc is the signature every command handler implements. args holds
// the whitespace-split tokens that followed the command name; the name itself
// is never included.
type HandlerFunc func(ctx context.Context, ec *Context, args []string) error

// Command is a single named, invokable unit contributed by an extension.
// Commands are immutable once built; a reload replaces the whole group.
type Command struct {
	// Name is unique across all loaded extensions, case-sensitive, and
	// contains no whitespace.
	Name string

	// Help is the human-readable usage text shown by the help command.
	Help string

	// Hidden excludes the command from discoverability listings without
	// affecting invocation.
	Hidden bool

	// Run is the handler invoked by the dispatcher.
	Run HandlerFunc
}

// ValidName reports whether name is usable as a command name.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\n\r")
}
