package corpus

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ernexus/internal/filestore"
	"github.com/xxxsen/ernexus/internal/format"
)

const (
	artifactTexts          = "texts.json"
	artifactTables         = "tables.json"
	artifactImages         = "images.json"
	artifactTextSummaries  = "text_summaries.json"
	artifactTableSummaries = "table_summaries.json"
	artifactImageSummaries = "image_summaries.json"
)

// Load reads the six artifact collections. A missing or unreadable artifact
// degrades to an empty collection for that modality; only a corpus with no
// content at all is worth an error-level log, and even that is not fatal.
func Load(ctx context.Context, store filestore.Store) *Corpus {
	logger := logutil.GetLogger(ctx)

	c := &Corpus{
		Texts:          loadArtifact(ctx, store, artifactTexts),
		Tables:         loadArtifact(ctx, store, artifactTables),
		TextSummaries:  sanitizeAll(loadArtifact(ctx, store, artifactTextSummaries)),
		TableSummaries: sanitizeAll(loadArtifact(ctx, store, artifactTableSummaries)),
	}

	images := loadArtifact(ctx, store, artifactImages)
	imageSummaries := sanitizeAll(loadArtifact(ctx, store, artifactImageSummaries))
	c.Images, c.ImageSummaries = normalizeImages(ctx, images, imageSummaries)

	logger.Info("corpus loaded",
		zap.Int("texts", len(c.Texts)),
		zap.Int("tables", len(c.Tables)),
		zap.Int("images", len(c.Images)),
	)
	if c.Empty() {
		logger.Error("corpus has no content in any modality, all queries will answer with empty context")
	}
	return c
}

func loadArtifact(ctx context.Context, store filestore.Store, name string) []string {
	items, err := readArtifact(ctx, store, name)
	if err != nil {
		logutil.GetLogger(ctx).Warn("artifact unavailable, using empty collection",
			zap.String("artifact", name), zap.Error(err))
		return nil
	}
	return items
}

func readArtifact(ctx context.Context, store filestore.Store, name string) ([]string, error) {
	r, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer r.Close()
	var items []string
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return items, nil
}

func sanitizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, format.Sanitize(item))
	}
	return out
}

// normalizeImages pairs payloads with captions positionally and drops items
// whose payload fails to normalize, keeping the two slices aligned.
func normalizeImages(ctx context.Context, images, summaries []string) ([]string, []string) {
	n := len(images)
	if len(summaries) < n {
		n = len(summaries)
	}
	if n == 0 && len(images) > 0 && len(summaries) == 0 {
		// no captions at all: keep payloads, pair with empty captions
		n = len(images)
		summaries = make([]string, n)
	}
	outImages := make([]string, 0, n)
	outSummaries := make([]string, 0, n)
	for i := 0; i < n; i++ {
		b64, ok := EnsureBase64(images[i])
		if !ok {
			logutil.GetLogger(ctx).Debug("skipping malformed image payload", zap.Int("index", i))
			continue
		}
		outImages = append(outImages, b64)
		outSummaries = append(outSummaries, summaries[i])
	}
	return outImages, outSummaries
}

// EnsureBase64 returns a clean base64 string for an image payload. Data-URI
// prefixes are stripped; payloads that are not already valid base64 are
// re-encoded as raw bytes. Only an empty payload fails.
func EnsureBase64(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, ","); idx >= 0 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	if s == "" {
		return "", false
	}
	if !strings.ContainsAny(s, ", \n") {
		if _, err := base64.StdEncoding.DecodeString(s); err == nil {
			return s, true
		}
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), true
}
