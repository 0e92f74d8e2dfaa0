package store

import (
	"testing"

	"github.com/xxxsen/ernexus/internal/model"
)

func TestDocumentStore_GetManyPreservesOrderAndGaps(t *testing.T) {
	s := NewDocumentStore()
	s.Put("a", model.TextItem{Content: "text a"})
	s.Put("b", model.ImageItem{Data: "aGVsbG8=", Caption: "cap"})

	got := s.GetMany([]string{"b", "missing", "a"})
	if len(got) != 3 {
		t.Fatalf("expected positional results, got %d", len(got))
	}
	if img, ok := got[0].(model.ImageItem); !ok || img.Caption != "cap" {
		t.Fatalf("wrong item at position 0: %#v", got[0])
	}
	if got[1] != nil {
		t.Fatalf("missing id must yield nil marker, got %#v", got[1])
	}
	if txt, ok := got[2].(model.TextItem); !ok || txt.Content != "text a" {
		t.Fatalf("wrong item at position 2: %#v", got[2])
	}
}

func TestDocumentStore_IgnoresInvalidPuts(t *testing.T) {
	s := NewDocumentStore()
	s.Put("", model.TextItem{Content: "no id"})
	s.Put("x", nil)
	if s.Len() != 0 {
		t.Fatalf("invalid puts should be ignored, len = %d", s.Len())
	}
}
