// Package memory holds the in-process store backend. It is the default for
// local runs and the backend every service test runs against.
package memory

import (
	"context"
	"sort"
	"sync"
)

// store is a generic map guarded by a mutex whose writes join the unit of
// work carried by the context
type store[K comparable, T any] struct {
	mu    sync.RWMutex
	items map[K]T
}

func newStore[K comparable, T any]() *store[K, T] {
	return &store[K, T]{items: make(map[K]T)}
}

func (s *store[K, T]) get(key K) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	return item, ok
}

// put stores item under key and records how to restore the previous value
func (s *store[K, T]) put(ctx context.Context, key K, item T) {
	s.mu.Lock()
	prev, existed := s.items[key]
	s.items[key] = item
	s.mu.Unlock()

	recordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.items[key] = prev
		} else {
			delete(s.items, key)
		}
	})
}

// insert is put that refuses to overwrite
func (s *store[K, T]) insert(ctx context.Context, key K, item T) bool {
	s.mu.Lock()
	if _, exists := s.items[key]; exists {
		s.mu.Unlock()
		return false
	}
	s.items[key] = item
	s.mu.Unlock()

	recordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.items, key)
	})
	return true
}

// list returns the items accepted by keep ordered by less
func (s *store[K, T]) list(keep func(T) bool, less func(a, b T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []T
	for _, item := range s.items {
		if keep == nil || keep(item) {
			out = append(out, item)
		}
	}
	if less != nil {
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func (s *store[K, T]) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[K]T)
}
