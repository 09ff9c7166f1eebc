// Package registry holds the in-memory catalog of loaded commands, grouped
// by the extension that contributed them and indexed by command name.
//
// Readers (Lookup, VisibleNames) run concurrently with each other and never
// observe a partially registered extension: a group is validated first and
// then published under the write lock in one step.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/shardbotgo/internal/command"
)

// Registry is the shared command catalog for one runtime instance. It is
// explicitly owned by the shard group manager and injected into the loader
// and dispatcher; there is no ambient global instance.
type Registry struct {
	mu     sync.RWMutex
	groups map[string][]*command.Command
	byName map[string]*command.Command
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		groups: make(map[string][]*command.Command),
		byName: make(map[string]*command.Command),
	}
}

// Register stores a command group under the given extension name, replacing
// any prior group registered for that extension. It fails without touching
// the registry when the group is malformed or when a command name is already
// owned by a different extension; a name collision is never merged silently.
func (r *Registry) Register(extension string, cmds []*command.Command) error {
	if extension == "" {
		return fmt.Errorf("extension name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate the whole group before publishing anything.
	seen := make(map[string]struct{}, len(cmds))
	for _, cmd := range cmds {
		if cmd == nil || cmd.Run == nil {
			return fmt.Errorf("extension %q: command without a handler", extension)
		}
		if !command.ValidName(cmd.Name) {
			return fmt.Errorf("extension %q: invalid command name %q", extension, cmd.Name)
		}
		if _, dup := seen[cmd.Name]; dup {
			return fmt.Errorf("extension %q: duplicate command name %q", extension, cmd.Name)
		}
		seen[cmd.Name] = struct{}{}

		if owner, taken := r.ownerOf(cmd.Name); taken && owner != extension {
			return fmt.Errorf("command %q is already provided by extension %q", cmd.Name, owner)
		}
	}

	// Publish by replace: drop the old group's index entries, then install
	// the new group in full.
	for _, old := range r.groups[extension] {
		delete(r.byName, old.Name)
	}
	group := make([]*command.Command, len(cmds))
	copy(group, cmds)
	r.groups[extension] = group
	for _, cmd := range group {
		r.byName[cmd.Name] = cmd
	}

	slog.Debug("Registered command group.", "extension", extension, "commands", len(group))
	return nil
}

// Unregister removes the group registered under the given extension name.
// Unknown names are a no-op.
func (r *Registry) Unregister(extension string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cmd := range r.groups[extension] {
		delete(r.byName, cmd.Name)
	}
	delete(r.groups, extension)
}

// Lookup returns the command registered under name, if any. The uniqueness
// invariant guarantees at most one match across all loaded extensions.
func (r *Registry) Lookup(name string) (*command.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Loaded reports whether a group is currently registered for the extension.
func (r *Registry) Loaded(extension string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.groups[extension]
	return ok
}

// VisibleNames returns the sorted names of all non-hidden commands across
// every loaded extension.
func (r *Registry) VisibleNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name, cmd := range r.byName {
		if !cmd.Hidden {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Count returns the total number of registered commands, hidden included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Extensions returns the sorted names of all loaded extensions.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ownerOf reports which extension currently provides the named command.
// Caller must hold at least the read lock.
func (r *Registry) ownerOf(name string) (string, bool) {
	if _, ok := r.byName[name]; !ok {
		return "", false
	}
	for extension, group := range r.groups {
		for _, cmd := range group {
			if cmd.Name == name {
				return extension, true
			}
		}
	}
	return "", false
}
