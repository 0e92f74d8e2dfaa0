package retrieval

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ernexus/internal/index"
	"github.com/xxxsen/ernexus/internal/model"
)

const (
	fallbackTextCount  = 5
	fallbackImageCount = 4
)

// expandTriggers widen k for comparative or evidence-seeking questions.
// Static query-string decision, nothing learned.
var expandTriggers = []string{
	"compare", "versus", "vs", "evidence", "systematic", "meta-analysis", "mechanism",
}

type Retriever struct {
	manager  *index.Manager
	kInitial int
	kExpand  int
}

func NewRetriever(manager *index.Manager, kInitial, kExpand int) *Retriever {
	return &Retriever{manager: manager, kInitial: kInitial, kExpand: kExpand}
}

// Snapshot returns the corpus snapshot queries currently run against.
func (r *Retriever) Snapshot() *index.Snapshot {
	return r.manager.Snapshot()
}

// PlanK picks the candidate count for a query.
func (r *Retriever) PlanK(query string) int {
	q := strings.ToLower(query)
	for _, trigger := range expandTriggers {
		if strings.Contains(q, trigger) {
			return r.kExpand
		}
	}
	return r.kInitial
}

// Retrieve resolves a query through the summary index, partitions the
// resolved originals by modality and substitutes keyword fallbacks for any
// empty partition. Adapter errors, cancellations and dangling identifiers
// all degrade to "no hits"; nothing here is fatal.
func (r *Retriever) Retrieve(ctx context.Context, query string) model.RetrievalResult {
	var result model.RetrievalResult
	snap := r.manager.Snapshot()
	if snap == nil {
		return result
	}

	k := r.PlanK(query)
	hits, err := snap.Index.Query(ctx, query, k)
	if err != nil {
		logutil.GetLogger(ctx).Warn("summary index unavailable, using keyword fallback", zap.Error(err))
		hits = nil
	}

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}
	for _, item := range snap.Store.GetMany(ids) {
		switch v := item.(type) {
		case model.TextItem:
			result.Context.Texts = append(result.Context.Texts, v.Content)
		case model.TableItem:
			result.Context.Texts = append(result.Context.Texts, v.Content)
		case model.ImageItem:
			result.Context.Images = append(result.Context.Images, v)
		case nil:
			// dangling identifier, skip
		}
	}

	if len(result.Context.Texts) == 0 {
		result.FallbackTexts = KeywordExcerpts(query, snap.Corpus.FallbackTextPool(), fallbackTextCount)
	}
	if len(result.Context.Images) == 0 {
		result.FallbackImages = KeywordImageHits(query, snap.Corpus.Images, snap.Corpus.ImageSummaries, fallbackImageCount)
	}
	return result
}
