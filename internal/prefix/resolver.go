// Package prefix resolves the ordered set of command prefixes accepted for a
// given user: two built-in defaults followed by at most one custom prefix
// kept in an external key-value store.
package prefix

import (
	"context"
	"time"

	"github.com/vk/shardbotgo/internal/ctxlog"
)

// Defaults are the built-in prefixes every user gets, in matching order.
// The resolver always places them ahead of any custom prefix.
var Defaults = [2]string{"n!", "N!"}

// DefaultLookupTimeout bounds a single store lookup when no explicit timeout
// is configured.
const DefaultLookupTimeout = 500 * time.Millisecond

// Store is the single-key read surface of the external key-value store. The
// second return value distinguishes an absent key from an empty value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// Resolver fetches per-user prefix sets. Lookups are bounded by a timeout;
// any store failure degrades to the built-in defaults and is logged, never
// surfaced to the user.
type Resolver struct {
	store   Store
	timeout time.Duration
}

// NewResolver creates a resolver over the given store.
func NewResolver(store Store, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Resolver{store: store, timeout: timeout}
}

// Key returns the store key holding a user's custom prefix.
func Key(userID string) string {
	return userID + "-prefix"
}

// Resolve returns the ordered prefixes accepted for the user. The result is
// a fresh slice; callers may keep it. Prefix sets are fetched per message
// and not cached here.
func (r *Resolver) Resolve(ctx context.Context, userID string) []string {
	prefixes := []string{Defaults[0], Defaults[1]}
	if r.store == nil {
		return prefixes
	}

	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, ok, err := r.store.Get(opCtx, Key(userID))
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Prefix store lookup failed, falling back to defaults.", "userID", userID, "error", err)
		return prefixes
	}
	if !ok || len(data) == 0 {
		return prefixes
	}

	return append(prefixes, string(data))
}
