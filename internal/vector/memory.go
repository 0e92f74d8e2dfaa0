package vector

import (
	"context"
	"math"
	"sort"
	"sync"
)

type memoryDriver struct {
	mu      sync.RWMutex
	entries []Entry
}

func init() {
	Register("memory", createMemoryDriver)
}

func createMemoryDriver(args interface{}) (Driver, error) {
	_ = args
	return &memoryDriver{}, nil
}

func (d *memoryDriver) Add(ctx context.Context, entries []Entry) error {
	_ = ctx
	d.mu.Lock()
	d.entries = append(d.entries, entries...)
	d.mu.Unlock()
	return nil
}

func (d *memoryDriver) Query(ctx context.Context, embedding []float32, topK int) ([]Hit, error) {
	_ = ctx
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.entries) == 0 {
		return nil, ErrNotReady
	}
	hits := make([]Hit, 0, len(d.entries))
	for _, e := range d.entries {
		hits = append(hits, Hit{
			ID:       e.ID,
			Modality: e.Modality,
			Score:    cosineSimilarity(embedding, e.Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func (d *memoryDriver) Reset(ctx context.Context) error {
	_ = ctx
	d.mu.Lock()
	d.entries = nil
	d.mu.Unlock()
	return nil
}

func (d *memoryDriver) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
