package prefix_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vk/shardbotgo/internal/prefix"
	"github.com/vk/shardbotgo/internal/testutil"
)

func TestResolveDefaultsWhenAbsent(t *testing.T) {
	store := testutil.NewFakeStore()
	r := prefix.NewResolver(store, 0)

	got := r.Resolve(context.Background(), "42")
	assert.Equal(t, []string{"n!", "N!"}, got)
}

func TestResolveAppendsCustomPrefix(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Set(prefix.Key("42"), []byte("x!"))
	r := prefix.NewResolver(store, 0)

	got := r.Resolve(context.Background(), "42")
	assert.Equal(t, []string{"n!", "N!", "x!"}, got, "defaults keep their order ahead of the custom prefix")
}

func TestResolveIsPerUser(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Set(prefix.Key("42"), []byte("x!"))
	r := prefix.NewResolver(store, 0)

	assert.Equal(t, []string{"n!", "N!"}, r.Resolve(context.Background(), "43"))
}

func TestResolveFallsBackOnStoreError(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Set(prefix.Key("42"), []byte("x!"))
	store.Err = errors.New("connection refused")
	r := prefix.NewResolver(store, 0)

	got := r.Resolve(context.Background(), "42")
	assert.Equal(t, []string{"n!", "N!"}, got, "store failure degrades to defaults, never errors out")
}

func TestResolveTimeoutBehavesLikeStoreError(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Set(prefix.Key("42"), []byte("x!"))
	store.Delay = 200 * time.Millisecond
	r := prefix.NewResolver(store, 10*time.Millisecond)

	start := time.Now()
	got := r.Resolve(context.Background(), "42")
	assert.Equal(t, []string{"n!", "N!"}, got)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "lookup must be bounded by the configured timeout")
}

func TestResolveIgnoresEmptyStoredValue(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Set(prefix.Key("42"), []byte(""))
	r := prefix.NewResolver(store, 0)

	assert.Equal(t, []string{"n!", "N!"}, r.Resolve(context.Background(), "42"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "42-prefix", prefix.Key("42"))
}
