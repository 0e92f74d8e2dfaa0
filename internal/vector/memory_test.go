package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/xxxsen/ernexus/internal/config"
	"github.com/xxxsen/ernexus/internal/model"
)

func newMemory(t *testing.T) Driver {
	t.Helper()
	d, err := New(config.RetrievalConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("create memory driver: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestMemoryDriver_QueryRanksByCosine(t *testing.T) {
	ctx := context.Background()
	d := newMemory(t)
	err := d.Add(ctx, []Entry{
		{ID: "far", Modality: model.ModalityText, Embedding: []float32{0, 1, 0}},
		{ID: "near", Modality: model.ModalityText, Embedding: []float32{1, 0, 0}},
		{ID: "close", Modality: model.ModalityImage, Embedding: []float32{0.9, 0.1, 0}},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	hits, err := d.Query(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("topK not applied: %d hits", len(hits))
	}
	if hits[0].ID != "near" || hits[1].ID != "close" {
		t.Fatalf("ranking wrong: %+v", hits)
	}
	if hits[1].Modality != model.ModalityImage {
		t.Fatalf("modality not carried: %+v", hits[1])
	}
}

func TestMemoryDriver_NotReadyUntilAdd(t *testing.T) {
	ctx := context.Background()
	d := newMemory(t)
	if _, err := d.Query(ctx, []float32{1}, 3); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if err := d.Add(ctx, []Entry{{ID: "a", Embedding: []float32{1}}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := d.Query(ctx, []float32{1}, 3); err != nil {
		t.Fatalf("query after add: %v", err)
	}
	if err := d.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := d.Query(ctx, []float32{1}, 3); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady after reset, got %v", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Fatalf("identical vectors should score 1, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("orthogonal vectors should score 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{1}); got != 0 {
		t.Fatalf("dimension mismatch should score 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Fatalf("zero vector should score 0, got %f", got)
	}
}
