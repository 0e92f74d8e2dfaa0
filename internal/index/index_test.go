package index

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xxxsen/ernexus/internal/config"
	"github.com/xxxsen/ernexus/internal/corpus"
	"github.com/xxxsen/ernexus/internal/model"
	"github.com/xxxsen/ernexus/internal/vector"
)

type stubEmbedder struct {
	vecs  map[string][]float32
	calls int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	s.calls++
	if v, ok := s.vecs[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func (s *stubEmbedder) ModelName() string {
	return "stub-embed"
}

func memDriver(t *testing.T) vector.Driver {
	t.Helper()
	d, err := vector.New(config.RetrievalConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestBuild_HitsResolveToOriginals(t *testing.T) {
	ctx := context.Background()
	c := &corpus.Corpus{
		Texts:          []string{"full fidelity text"},
		TextSummaries:  []string{"short text summary"},
		Images:         []string{"aGVsbG8="},
		ImageSummaries: []string{"diagram caption"},
	}
	emb := &stubEmbedder{vecs: map[string][]float32{
		"short text summary": {1, 0},
		"diagram caption":    {0, 1},
	}}
	driver := memDriver(t)

	docStore, idx, err := Build(ctx, c, emb, driver)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if docStore.Len() != 2 {
		t.Fatalf("expected 2 stored items, got %d", docStore.Len())
	}

	emb.vecs["which text?"] = []float32{1, 0}
	hits, err := idx.Query(ctx, "which text?", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	items := docStore.GetMany([]string{hits[0].ID})
	txt, ok := items[0].(model.TextItem)
	if !ok || txt.Content != "full fidelity text" {
		t.Fatalf("hit did not resolve to original: %#v", items[0])
	}
}

func TestBuild_UnembeddableSummaryStaysResolvable(t *testing.T) {
	ctx := context.Background()
	c := &corpus.Corpus{
		Texts:         []string{"text a", "text b"},
		TextSummaries: []string{"summary a", "summary broken"},
	}
	emb := &stubEmbedder{vecs: map[string][]float32{
		"summary a": {1, 0},
	}}
	driver := memDriver(t)

	docStore, idx, err := Build(ctx, c, emb, driver)
	if err != nil {
		t.Fatalf("build must tolerate per-item embed failures: %v", err)
	}
	// both originals stored, only one summary indexed
	if docStore.Len() != 2 {
		t.Fatalf("expected 2 stored items, got %d", docStore.Len())
	}
	emb.vecs["probe"] = []float32{1, 0}
	hits, err := idx.Query(ctx, "probe", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected only the embeddable summary in the index, got %d", len(hits))
	}
}

func TestBuild_QueryZeroK(t *testing.T) {
	idx := NewSummaryIndex(&stubEmbedder{}, memDriver(t))
	hits, err := idx.Query(context.Background(), "whatever", 0)
	if err != nil || hits != nil {
		t.Fatalf("k<=0 must short-circuit, got (%v, %v)", hits, err)
	}
}

func TestManager_RebuildSwapsSnapshot(t *testing.T) {
	ctx := context.Background()
	emb := &stubEmbedder{vecs: map[string][]float32{"s1": {1}, "s2": {0.5}}}
	m := NewManager(emb, memDriver(t))
	if m.Snapshot() != nil {
		t.Fatalf("snapshot must be nil before first rebuild")
	}

	c1 := &corpus.Corpus{Texts: []string{"gen one"}, TextSummaries: []string{"s1"}}
	if err := m.Rebuild(ctx, c1); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	first := m.Snapshot()
	if first == nil || first.Corpus != c1 {
		t.Fatalf("snapshot not published")
	}

	c2 := &corpus.Corpus{Texts: []string{"gen two"}, TextSummaries: []string{"s2"}}
	if err := m.Rebuild(ctx, c2); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	second := m.Snapshot()
	if second == first || second.Corpus != c2 {
		t.Fatalf("rebuild did not swap the snapshot")
	}
	if first.Corpus != c1 {
		t.Fatalf("old snapshot mutated")
	}
}

func TestManager_RebuildErrorKeepsOldSnapshot(t *testing.T) {
	ctx := context.Background()
	emb := &stubEmbedder{vecs: map[string][]float32{"s1": {1}}}
	driver := &failingDriver{Driver: memDriver(t)}
	m := NewManager(emb, driver)

	c1 := &corpus.Corpus{Texts: []string{"gen one"}, TextSummaries: []string{"s1"}}
	if err := m.Rebuild(ctx, c1); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	old := m.Snapshot()

	driver.failAdd = true
	if err := m.Rebuild(ctx, c1); err == nil {
		t.Fatalf("expected rebuild failure")
	}
	if m.Snapshot() != old {
		t.Fatalf("failed rebuild must not replace the snapshot")
	}
}

type failingDriver struct {
	vector.Driver
	failAdd bool
}

func (f *failingDriver) Add(ctx context.Context, entries []vector.Entry) error {
	if f.failAdd {
		return errors.New("backend write refused")
	}
	return f.Driver.Add(ctx, entries)
}
