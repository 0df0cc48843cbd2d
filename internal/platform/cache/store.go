package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/qpfl/league-core/internal/platform/resilience"
)

var errNoLoader = errors.New("cache: loader is required")

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) live(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// Store is an in-process TTL cache. A zero TTL keeps entries until deleted.
// Expired entries are dropped lazily on read and on DeletePrefix.
type Store[V any] struct {
	ttl    time.Duration
	now    func() time.Time
	flight resilience.SingleFlight[V]

	mu      sync.RWMutex
	entries map[string]entry[V]
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:     max(ttl, 0),
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if ok && e.live(s.now()) {
		return e.value, true
	}
	if ok {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && !cur.live(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
	}
	var zero V
	return zero, false
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}
	e := entry[V]{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// DeletePrefix drops every key under prefix, e.g. one season/week of stats,
// along with anything already expired.
func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if (prefix != "" && strings.HasPrefix(key, prefix)) || !e.live(now) {
			delete(s.entries, key)
		}
	}
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// callers of the same key. Load errors are returned to every waiter and not
// cached. An empty key bypasses the cache.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	if loader == nil {
		var zero V
		return zero, errNoLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := s.flight.Do(key, func() (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err == nil {
			s.Set(ctx, key, loaded)
		}
		return loaded, err
	})
	return v, err
}
