package registry

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/shardbotgo/internal/command"
)

func noop(_ context.Context, _ *command.Context, _ []string) error {
	return nil
}

func mkCmd(name string, hidden bool) *command.Command {
	return &command.Command{Name: name, Hidden: hidden, Run: noop}
}

func TestNew(t *testing.T) {
	r := New()
	require.NotNil(t, r)
	assert.Zero(t, r.Count())
	assert.Empty(t, r.VisibleNames())
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()

	err := r.Register("ping", []*command.Command{mkCmd("ping", false)})
	require.NoError(t, err)

	cmd, ok := r.Lookup("ping")
	require.True(t, ok)
	assert.Equal(t, "ping", cmd.Name)

	_, ok = r.Lookup("Ping") // names are case-sensitive
	assert.False(t, ok)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegisterRejectsMalformedGroups(t *testing.T) {
	r := New()

	t.Run("empty extension name", func(t *testing.T) {
		err := r.Register("", []*command.Command{mkCmd("x", false)})
		assert.ErrorContains(t, err, "extension name")
	})

	t.Run("invalid command name", func(t *testing.T) {
		err := r.Register("bad", []*command.Command{mkCmd("has space", false)})
		assert.ErrorContains(t, err, "invalid command name")
	})

	t.Run("missing handler", func(t *testing.T) {
		err := r.Register("bad", []*command.Command{{Name: "x"}})
		assert.ErrorContains(t, err, "without a handler")
	})

	t.Run("duplicate within group", func(t *testing.T) {
		err := r.Register("bad", []*command.Command{mkCmd("x", false), mkCmd("x", false)})
		assert.ErrorContains(t, err, "duplicate command name")
	})

	// A failed registration must leave nothing behind.
	assert.Zero(t, r.Count())
}

func TestCrossExtensionCollisionIsRejected(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("first", []*command.Command{mkCmd("ping", false)}))
	err := r.Register("second", []*command.Command{mkCmd("ping", false)})
	require.ErrorContains(t, err, `already provided by extension "first"`)

	// The original owner's handler is untouched, and the failed group left
	// no partial state.
	cmd, ok := r.Lookup("ping")
	require.True(t, ok)
	assert.NotNil(t, cmd.Run)
	assert.False(t, r.Loaded("second"))
	assert.Equal(t, 1, r.Count())
}

func TestRegisterReplacesPriorGroup(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("tools", []*command.Command{mkCmd("a", false), mkCmd("b", false)}))
	require.NoError(t, r.Register("tools", []*command.Command{mkCmd("b", false), mkCmd("c", false)}))

	_, ok := r.Lookup("a")
	assert.False(t, ok, "replaced group's old command should be gone")
	_, ok = r.Lookup("c")
	assert.True(t, ok)
	assert.Equal(t, 2, r.Count())
}

func TestUnregister(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("tools", []*command.Command{mkCmd("a", false)}))
	r.Unregister("tools")

	_, ok := r.Lookup("a")
	assert.False(t, ok)
	assert.False(t, r.Loaded("tools"))

	// Unknown extension is a no-op.
	r.Unregister("never-loaded")
}

func TestVisibleNamesExcludesHidden(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("tools", []*command.Command{
		mkCmd("zeta", false),
		mkCmd("alpha", false),
		mkCmd("secret", true),
	}))

	if diff := cmp.Diff([]string{"alpha", "zeta"}, r.VisibleNames()); diff != "" {
		t.Errorf("VisibleNames mismatch (-want +got):\n%s", diff)
	}

	// Hidden commands remain invokable.
	_, ok := r.Lookup("secret")
	assert.True(t, ok)
	assert.Equal(t, 3, r.Count())
}

func TestExtensions(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("b", []*command.Command{mkCmd("one", false)}))
	require.NoError(t, r.Register("a", []*command.Command{mkCmd("two", false)}))

	assert.Equal(t, []string{"a", "b"}, r.Extensions())
}
