// Package cache is a small in-process TTL cache with coalesced loads.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var errNilLoader = errors.New("cache: loader is required")

type item[V any] struct {
	value    V
	deadline time.Time
}

// Store maps string keys to values of one type. Every entry expires after
// the store TTL at the latest. A non-positive TTL disables caching and turns
// GetOrLoad into a plain call.
type Store[V any] struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu     sync.Mutex
	items  map[string]item[V]
	flight singleflight.Group
}

type Option func(*config)

type config struct {
	maxEntries int
}

// WithMaxEntries bounds the store. When full, expired entries are swept
// first and then an arbitrary live entry is dropped.
func WithMaxEntries(n int) Option {
	return func(c *config) { c.maxEntries = n }
}

func New[V any](ttl time.Duration, opts ...Option) *Store[V] {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return &Store[V]{
		ttl:        ttl,
		maxEntries: c.maxEntries,
		now:        time.Now,
		items:      make(map[string]item[V]),
	}
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !it.deadline.After(s.now()) {
		delete(s.items, key)
		var zero V
		return zero, false
	}
	return it.value, true
}

func (s *Store[V]) Set(key string, value V) {
	s.SetUntil(key, value, time.Time{})
}

// SetUntil stores value until deadline or the store TTL, whichever is
// sooner. A zero deadline means the TTL alone applies. Values whose
// deadline has already passed are not stored.
func (s *Store[V]) SetUntil(key string, value V, deadline time.Time) {
	if s.ttl <= 0 || key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	limit := now.Add(s.ttl)
	if deadline.IsZero() || deadline.After(limit) {
		deadline = limit
	}
	if !deadline.After(now) {
		return
	}

	if _, exists := s.items[key]; !exists && s.maxEntries > 0 && len(s.items) >= s.maxEntries {
		s.makeRoom(now)
	}
	s.items[key] = item[V]{value: value, deadline: deadline}
}

func (s *Store[V]) Delete(keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.items, key)
	}
	s.mu.Unlock()
}

func (s *Store[V]) Clear() {
	s.mu.Lock()
	clear(s.items)
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// GetOrLoad returns the cached value for key or calls load once for all
// concurrent callers. Errors are returned to every waiter and not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if load == nil {
		var zero V
		return zero, errNilLoader
	}
	if s.ttl <= 0 || key == "" {
		return load(ctx)
	}
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	res, err, _ := s.flight.Do(key, func() (any, error) {
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

func (s *Store[V]) makeRoom(now time.Time) {
	for key, it := range s.items {
		if !it.deadline.After(now) {
			delete(s.items, key)
		}
	}
	if len(s.items) < s.maxEntries {
		return
	}
	for key := range s.items {
		delete(s.items, key)
		return
	}
}
