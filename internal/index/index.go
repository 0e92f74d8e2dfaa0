package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ernexus/internal/ai"
	"github.com/xxxsen/ernexus/internal/corpus"
	"github.com/xxxsen/ernexus/internal/model"
	"github.com/xxxsen/ernexus/internal/store"
	"github.com/xxxsen/ernexus/internal/vector"
)

const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// SummaryIndex answers nearest-neighbor lookups over indexed summaries.
// It carries no business logic: ranking quality belongs to the embedding.
type SummaryIndex struct {
	embedder ai.IEmbedder
	driver   vector.Driver
}

func NewSummaryIndex(embedder ai.IEmbedder, driver vector.Driver) *SummaryIndex {
	return &SummaryIndex{embedder: embedder, driver: driver}
}

// Query embeds the text and returns up to k ranked hits. Any failure is the
// caller's signal to fall back, not an error worth surfacing to users.
func (s *SummaryIndex) Query(ctx context.Context, text string, k int) ([]vector.Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	emb, err := s.embedder.Embed(ctx, text, taskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.driver.Query(ctx, emb, k)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	return hits, nil
}

// Build indexes a corpus: every item gets a fresh uuid, the full-fidelity
// original goes into the document store and the embedded summary into the
// vector driver. Items whose summary fails to embed are logged and left out
// of the index; their originals stay resolvable. Identifiers are never
// reused across builds.
func Build(ctx context.Context, c *corpus.Corpus, embedder ai.IEmbedder, driver vector.Driver) (*store.DocumentStore, *SummaryIndex, error) {
	logger := logutil.GetLogger(ctx)
	docStore := store.NewDocumentStore()

	if err := driver.Reset(ctx); err != nil {
		logger.Warn("vector driver reset failed", zap.Error(err))
	}

	var entries []vector.Entry
	addGroup := func(modality model.Modality, originals, summaries []string) {
		n := len(originals)
		if len(summaries) < n {
			n = len(summaries)
		}
		for i := 0; i < n; i++ {
			id := uuid.NewString()
			var item model.ContentItem
			switch modality {
			case model.ModalityText:
				item = model.TextItem{Content: originals[i]}
			case model.ModalityTable:
				item = model.TableItem{Content: originals[i]}
			case model.ModalityImage:
				item = model.ImageItem{Data: originals[i], Caption: summaries[i]}
			}
			docStore.Put(id, item)
			emb, err := embedder.Embed(ctx, summaries[i], taskTypeDocument)
			if err != nil {
				logger.Warn("skip unembeddable summary",
					zap.String("modality", string(modality)),
					zap.Int("index", i),
					zap.Error(err))
				continue
			}
			entries = append(entries, vector.Entry{
				ID:        id,
				Modality:  modality,
				Summary:   summaries[i],
				Embedding: emb,
			})
		}
	}

	addGroup(model.ModalityText, c.Texts, c.TextSummaries)
	addGroup(model.ModalityTable, c.Tables, c.TableSummaries)
	addGroup(model.ModalityImage, c.Images, c.ImageSummaries)

	if len(entries) > 0 {
		if err := driver.Add(ctx, entries); err != nil {
			return nil, nil, fmt.Errorf("add entries: %w", err)
		}
	}
	logger.Info("summary index built",
		zap.Int("stored", docStore.Len()),
		zap.Int("indexed", len(entries)))
	return docStore, NewSummaryIndex(embedder, driver), nil
}
