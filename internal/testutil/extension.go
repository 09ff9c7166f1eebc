package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/extension"
)

// StaticModule is an extension.Module built from a plain handler map.
type StaticModule struct {
	Handlers map[string]command.HandlerFunc
}

// Register implements extension.Module.
func (m *StaticModule) Register(h *extension.Handlers, _ *extension.Deps) {
	for name, fn := range m.Handlers {
		h.Register(name, fn)
	}
}

// NoopHandler returns a handler that succeeds without side effects.
func NoopHandler() command.HandlerFunc {
	return func(_ context.Context, _ *command.Context, _ []string) error {
		return nil
	}
}

// WriteManifest writes a manifest file for the named extension under dir,
// creating the extension directory as needed.
func WriteManifest(t *testing.T, dir, name, contents string) {
	t.Helper()
	extDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(extDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(extDir, "manifest.hcl"), []byte(contents), 0o644))
}
