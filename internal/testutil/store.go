// Package testutil provides shared fakes for package tests: the prefix
// store, the gateway transport, and static extension modules.
package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeStore is an in-memory prefix.Store with scriptable failures.
type FakeStore struct {
	mu     sync.Mutex
	values map[string][]byte

	// Err, when set, is returned by every Get.
	Err error

	// Delay, when set, is waited before answering, bounded by the caller's
	// context. Used to exercise lookup timeouts.
	Delay time.Duration
}

// NewFakeStore creates an empty store.
func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string][]byte)}
}

// Set stores a value under key.
func (s *FakeStore) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get implements prefix.Store.
func (s *FakeStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, false, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok, nil
}
