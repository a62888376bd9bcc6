// Package store holds the per-visitor counter storage used to carry visit and
// session counts across page loads.
package store

import (
	"context"
	"sync"
)

// CounterStore persists monotonically increasing per-visitor counters.
type CounterStore interface {
	// Bump increments the named counter and returns its value before the
	// increment. A fresh counter returns 0.
	Bump(ctx context.Context, key string) (int64, error)
}

// MemoryCounterStore keeps counters in process memory. It stands in for the
// real store in tests and in environments without Redis.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counters: make(map[string]int64)}
}

func (s *MemoryCounterStore) Bump(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.counters[key]
	s.counters[key] = prev + 1
	return prev, nil
}
