package store

import (
	"sync"

	"github.com/xxxsen/ernexus/internal/model"
)

// DocumentStore maps opaque identifiers to full-fidelity corpus content.
// It is populated once at index-build time and read-only afterwards; the
// lock exists only so a build never races a concurrent reader.
type DocumentStore struct {
	mu    sync.RWMutex
	items map[string]model.ContentItem
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{items: make(map[string]model.ContentItem)}
}

func (s *DocumentStore) Put(id string, item model.ContentItem) {
	if id == "" || item == nil {
		return
	}
	s.mu.Lock()
	s.items[id] = item
	s.mu.Unlock()
}

// GetMany resolves identifiers in order. A missing identifier yields a nil
// entry at its position; misses never produce an error, the caller decides
// what to do with the gap.
func (s *DocumentStore) GetMany(ids []string) []model.ContentItem {
	out := make([]model.ContentItem, len(ids))
	s.mu.RLock()
	for i, id := range ids {
		out[i] = s.items[id]
	}
	s.mu.RUnlock()
	return out
}

func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
