package index

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/xxxsen/ernexus/internal/ai"
	"github.com/xxxsen/ernexus/internal/corpus"
	"github.com/xxxsen/ernexus/internal/store"
	"github.com/xxxsen/ernexus/internal/vector"
)

// Snapshot is one immutable generation of the corpus and its index.
type Snapshot struct {
	Corpus *corpus.Corpus
	Store  *store.DocumentStore
	Index  *SummaryIndex
}

// Manager hands out the current snapshot to queries and swaps in a new one
// on reload. Readers never block: a reload builds aside and swaps a pointer.
type Manager struct {
	current  atomic.Pointer[Snapshot]
	embedder ai.IEmbedder
	driver   vector.Driver
}

func NewManager(embedder ai.IEmbedder, driver vector.Driver) *Manager {
	return &Manager{embedder: embedder, driver: driver}
}

func (m *Manager) Snapshot() *Snapshot {
	return m.current.Load()
}

// Rebuild loads the given corpus into a fresh snapshot and publishes it.
func (m *Manager) Rebuild(ctx context.Context, c *corpus.Corpus) error {
	docStore, idx, err := Build(ctx, c, m.embedder, m.driver)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	m.current.Store(&Snapshot{Corpus: c, Store: docStore, Index: idx})
	return nil
}
