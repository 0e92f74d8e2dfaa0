package vector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/ernexus/internal/config"
	"github.com/xxxsen/ernexus/internal/model"
)

// ErrNotReady is returned by Query before any entries have been added.
var ErrNotReady = errors.New("vector index not built")

// Entry is one indexed summary with its embedding.
type Entry struct {
	ID        string
	Modality  model.Modality
	Summary   string
	Embedding []float32
}

// Hit is a ranked search result, higher score first.
type Hit struct {
	ID       string
	Modality model.Modality
	Score    float32
}

// Driver stores summary embeddings and answers nearest-neighbor queries.
type Driver interface {
	Add(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, embedding []float32, topK int) ([]Hit, error)
	Reset(ctx context.Context) error
	Close() error
}

type Factory func(args interface{}) (Driver, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.RetrievalConfig) (Driver, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if key == "" {
		return nil, fmt.Errorf("retrieval.backend is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported vector backend: %s", cfg.Backend)
	}
	return factory(cfg.Data)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("vector backend config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode vector backend config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode vector backend config: %w", err)
	}
	return nil
}
