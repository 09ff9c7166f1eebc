// Package extension loads and unloads named groups of commands at runtime.
//
// An extension is a Go package compiled into the binary plus an HCL manifest
// on disk. The Go side implements Module and registers named handler
// functions through a typed interface; the manifest declares the public
// command surface (name, handler, help text, hidden flag). Load parses the
// manifest, checks it against the registered handlers, and publishes the
// resulting group to the registry in one step. A malformed manifest leaves
// the registry untouched.
package extension

import (
	"fmt"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/registry"
)

// Deps holds the runtime collaborators an extension's handlers may use.
type Deps struct {
	// Registry is the live command catalog, for discoverability commands.
	Registry *registry.Registry

	// Instance is this process's instance index.
	Instance int
}

// Module is the interface every extension package implements to expose its
// handlers. Register is called once per load; the handler set it registers
// must cover every command the extension's manifest declares.
type Module interface {
	Register(h *Handlers, deps *Deps)
}

// Handlers is the typed registration surface a Module fills in during load.
type Handlers struct {
	all map[string]command.HandlerFunc
}

// NewHandlers creates an empty handler set.
func NewHandlers() *Handlers {
	return &Handlers{all: make(map[string]command.HandlerFunc)}
}

// Register adds a named handler function. Registering the same name twice is
// a programmer error in the extension package.
func (h *Handlers) Register(name string, fn command.HandlerFunc) {
	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	h.all[name] = fn
}

// lookup returns the handler registered under name.
func (h *Handlers) lookup(name string) (command.HandlerFunc, bool) {
	fn, ok := h.all[name]
	return fn, ok
}
