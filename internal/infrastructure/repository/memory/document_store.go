package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/qpfl/league-core/internal/domain/document"
)

// DocumentStore keeps versioned documents in process memory.
type DocumentStore struct {
	mu    sync.RWMutex
	items map[string]document.Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{items: make(map[string]document.Document)}
}

func (s *DocumentStore) Read(_ context.Context, key string) (document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	return cloneDocument(item), nil
}

func (s *DocumentStore) WriteIfVersion(_ context.Context, key string, value []byte, expected int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.items[key].Version
	if current != expected {
		return current, document.ErrVersionConflict
	}

	next := current + 1
	s.items[key] = document.Document{Key: key, Value: slices.Clone(value), Version: next}
	return next, nil
}

// Keys lists stored keys in sorted order.
func (s *DocumentStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.items))
	for key := range s.items {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

func cloneDocument(item document.Document) document.Document {
	copied := item
	copied.Value = slices.Clone(item.Value)
	return copied
}
