package extension

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/ctxlog"
	"github.com/vk/shardbotgo/internal/registry"
)

// Loader builds command groups from extension manifests and publishes them to
// the registry. Load and unload are serialized by a single mutex so no two
// operations on the same extension name can interleave.
type Loader struct {
	mu       sync.Mutex
	dir      string
	modules  map[string]Module
	deps     *Deps
	registry *registry.Registry
}

// NewLoader creates a loader over the given extensions directory. modules
// maps extension names to their compiled-in Go implementations.
func NewLoader(dir string, reg *registry.Registry, modules map[string]Module, deps *Deps) *Loader {
	if deps == nil {
		deps = &Deps{Registry: reg}
	}
	return &Loader{
		dir:      dir,
		modules:  modules,
		deps:     deps,
		registry: reg,
	}
}

// Discover enumerates the extension names available in the extensions
// directory, in sorted order. A directory qualifies when it contains a
// manifest file.
func (l *Loader) Discover(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extensions directory %s: %w", l.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(l.dir, entry.Name(), manifestFileName)); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	logger.Debug("Discovered extensions.", "path", l.dir, "count", len(names))
	return names, nil
}

// LoadAll discovers every available extension and loads each one. A single
// malformed extension is logged and skipped; it never aborts the others.
func (l *Loader) LoadAll(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	names, err := l.Discover(ctx)
	if err != nil {
		return err
	}

	loaded := 0
	for _, name := range names {
		if err := l.Load(ctx, name); err != nil {
			logger.Error("Skipping extension that failed to load.", "extension", name, "error", err)
			continue
		}
		loaded++
	}

	logger.Info("Extensions loaded.", "loaded", loaded, "available", len(names))
	return nil
}

// Load builds and registers the named extension's command group. Loading an
// already-loaded extension is a no-op, so repeated loads can never duplicate
// commands. On any validation failure the registry is left untouched.
func (l *Loader) Load(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx, name)
}

// Unload removes the named extension's command group. Unloading an extension
// that is not loaded is a no-op. The manifest is re-read on the next load,
// which is what makes hot-patching an extension possible without a restart.
func (l *Loader) Unload(ctx context.Context, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unload(ctx, name)
}

// Reload replaces the named extension's command group with a freshly built
// one. The old group stays registered until the new one passes validation,
// so a failed reload leaves the previous commands callable.
func (l *Loader) Reload(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger := ctxlog.FromContext(ctx)

	group, err := l.build(ctx, name)
	if err != nil {
		logger.Error("Reload validation failed, keeping previous command group.", "extension", name, "error", err)
		return err
	}

	// Register replaces the prior group for this extension atomically.
	if err := l.registry.Register(name, group); err != nil {
		logger.Error("Reload registration failed, keeping previous command group.", "extension", name, "error", err)
		return err
	}

	logger.Info("Reloaded extension.", "extension", name, "commands", len(group))
	return nil
}

func (l *Loader) load(ctx context.Context, name string) error {
	logger := ctxlog.FromContext(ctx)

	if l.registry.Loaded(name) {
		logger.Debug("Extension already loaded.", "extension", name)
		return nil
	}

	group, err := l.build(ctx, name)
	if err != nil {
		return err
	}

	if err := l.registry.Register(name, group); err != nil {
		return err
	}

	logger.Info("Loaded extension.", "extension", name, "commands", len(group))
	return nil
}

func (l *Loader) unload(ctx context.Context, name string) {
	logger := ctxlog.FromContext(ctx)

	if !l.registry.Loaded(name) {
		logger.Debug("Extension not loaded, nothing to unload.", "extension", name)
		return
	}

	l.registry.Unregister(name)
	logger.Info("Unloaded extension.", "extension", name)
}

// build parses the manifest, binds each declared command to its registered
// Go handler, and returns the resulting group without registering it.
func (l *Loader) build(_ context.Context, name string) ([]*command.Command, error) {
	module, ok := l.modules[name]
	if !ok {
		return nil, fmt.Errorf("no module is compiled in for extension %q", name)
	}

	m, err := parseManifest(l.dir, name)
	if err != nil {
		return nil, err
	}

	handlers := NewHandlers()
	module.Register(handlers, l.deps)

	group := make([]*command.Command, 0, len(m.Commands))
	for _, mc := range m.Commands {
		fn, ok := handlers.lookup(mc.OnInvoke)
		if !ok {
			return nil, fmt.Errorf("extension %q: manifest names handler %q, but the module does not register it", name, mc.OnInvoke)
		}
		group = append(group, &command.Command{
			Name:   mc.Name,
			Help:   mc.Help,
			Hidden: mc.Hidden,
			Run:    fn,
		})
	}
	return group, nil
}
