// Package cache provides the fixed-window read cache for board data.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TTL is the freshness window for cached reads. Entries older than this are
// re-fetched on the next access; the window is not configurable.
const TTL = 5 * time.Minute

// timeNow is swapped out in tests to control entry age.
var timeNow = time.Now

// FetchFunc loads a value on a cache miss.
type FetchFunc func(ctx context.Context) (any, error)

// Store is an in-process TTL cache guarded by one RWMutex. Concurrent
// misses on the same key may each run their fetch; the last write wins.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	value     any
	fetchedAt time.Time
}

func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// GetOrFetch returns the cached value for key while its age is inside the
// freshness window. Otherwise it runs fetch, stores the result with the
// current timestamp, and returns it. Fetch errors are returned to the
// caller and never cached.
func (s *Store) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && timeNow().Sub(e.fetchedAt) < TTL {
		return e.value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, fetchedAt: timeNow()}
	s.mu.Unlock()
	return value, nil
}

// Invalidate drops the named keys.
func (s *Store) Invalidate(keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// InvalidateAll drops every entry.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Len reports how many entries are stored, fresh or stale.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Typed wraps GetOrFetch for callers that know the shape they cached.
func Typed[T any](ctx context.Context, s *Store, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := s.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %q holds %T, want %T", key, v, zero)
	}
	return typed, nil
}
