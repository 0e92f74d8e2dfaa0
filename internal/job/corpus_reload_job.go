package job

import (
	"context"

	"github.com/xxxsen/ernexus/internal/corpus"
	"github.com/xxxsen/ernexus/internal/filestore"
	"github.com/xxxsen/ernexus/internal/index"
)

// CorpusReloadJob re-reads the preprocessed artifacts and rebuilds the
// retrieval index, swapping the new snapshot in atomically.
type CorpusReloadJob struct {
	store   filestore.Store
	manager *index.Manager
}

func NewCorpusReloadJob(store filestore.Store, manager *index.Manager) *CorpusReloadJob {
	return &CorpusReloadJob{store: store, manager: manager}
}

func (j *CorpusReloadJob) Name() string {
	return "corpus_reload"
}

func (j *CorpusReloadJob) Run(ctx context.Context) error {
	c := corpus.Load(ctx, j.store)
	if c.Empty() {
		// keep serving the previous snapshot instead of wiping it
		return nil
	}
	return j.manager.Rebuild(ctx, c)
}
