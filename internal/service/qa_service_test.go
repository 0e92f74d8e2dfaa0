package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ernexus/internal/ai"
	"github.com/xxxsen/ernexus/internal/config"
	"github.com/xxxsen/ernexus/internal/corpus"
	"github.com/xxxsen/ernexus/internal/format"
	"github.com/xxxsen/ernexus/internal/index"
	apperr "github.com/xxxsen/ernexus/internal/pkg/errors"
	"github.com/xxxsen/ernexus/internal/retrieval"
	"github.com/xxxsen/ernexus/internal/vector"
)

type fakeProvider struct {
	vecs           map[string][]float32
	reply          string
	genErr         error
	failQueryEmbed bool
	lastPrompt     string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, model string, prompt string, images []ai.ImagePart) (string, error) {
	f.lastPrompt = prompt
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.reply, nil
}

func (f *fakeProvider) Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error) {
	if f.failQueryEmbed && taskType == "RETRIEVAL_QUERY" {
		return nil, errors.New("embedding endpoint down")
	}
	if v, ok := f.vecs[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func newTestService(t *testing.T, provider *fakeProvider, c *corpus.Corpus) *QAService {
	t.Helper()
	driver, err := vector.New(config.RetrievalConfig{Backend: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })

	embedder := ai.NewEmbedder(provider, "embed-model")
	manager := ai.NewManager(ai.NewGenerator(provider, "gen-model"), embedder, ai.ManagerConfig{})
	idx := index.NewManager(embedder, driver)
	if c != nil {
		require.NoError(t, idx.Rebuild(context.Background(), c))
	}
	retriever := retrieval.NewRetriever(idx, 6, 10)
	return NewQAService(retriever, manager, QAConfig{MaxLine: 120, ContextLine: 90, CaptionLine: 120, MaxRefs: 8})
}

func sodiumCorpus() *corpus.Corpus {
	return &corpus.Corpus{
		Texts:         []string{"Limit sodium to 2g daily for CKD patients."},
		TextSummaries: []string{"sodium limit summary"},
	}
}

func TestAnswer_RejectedByGuard(t *testing.T) {
	svc := newTestService(t, &fakeProvider{}, nil)
	got := svc.Answer(context.Background(), "hi")
	require.True(t, got.Rejected)
	require.Equal(t, "Please enter a meaningful question.", got.Answer)
	require.Contains(t, got.AnswerHTML, "<p>")
	require.Empty(t, got.References)
	require.Empty(t, got.ContextTexts)
}

func TestAnswer_FullPipeline(t *testing.T) {
	provider := &fakeProvider{
		vecs: map[string][]float32{
			"sodium limit summary":   {1, 0},
			"how much sodium daily?": {1, 0},
		},
		reply: "- Limit sodium intake\n- Choose fresh foods",
	}
	svc := newTestService(t, provider, sodiumCorpus())

	got := svc.Answer(context.Background(), "how much sodium daily?")
	require.False(t, got.Rejected)
	require.Contains(t, got.Answer, "Limit sodium intake")
	require.Contains(t, got.Answer, "Choose fresh foods")
	require.Contains(t, strings.ToLower(got.Answer), "not a substitute for medical advice")
	require.Contains(t, got.AnswerHTML, "<li>")

	require.Equal(t, []string{"Limit sodium to 2g daily for CKD patients."}, got.References)
	require.Len(t, got.ContextTexts, 1)
	require.True(t, strings.HasPrefix(got.ContextTexts[0].Text, format.Bullet))
	require.Equal(t, "N/A", got.ContextTexts[0].PageNumber)

	require.Contains(t, provider.lastPrompt, "Limit sodium to 2g daily")
	require.Contains(t, provider.lastPrompt, "how much sodium daily?")
}

func TestAnswer_GeneratorFailureDegrades(t *testing.T) {
	provider := &fakeProvider{
		vecs: map[string][]float32{
			"sodium limit summary":   {1, 0},
			"how much sodium daily?": {1, 0},
		},
		genErr: errors.New("quota exhausted"),
	}
	svc := newTestService(t, provider, sodiumCorpus())

	got := svc.Answer(context.Background(), "how much sodium daily?")
	require.False(t, got.Rejected)
	require.Contains(t, got.Answer, "No answer could be generated")
	// retrieval context still flows out even without a generated answer
	require.Equal(t, []string{"Limit sodium to 2g daily for CKD patients."}, got.References)
	require.Len(t, got.ContextTexts, 1)
}

func TestAnswer_SafetyNoteAppended(t *testing.T) {
	provider := &fakeProvider{
		vecs: map[string][]float32{
			"sodium limit summary":        {1, 0},
			"Can I eat grapefruit daily?": {1, 0},
		},
		reply: "- Small portions only\n- Watch potassium load",
	}
	svc := newTestService(t, provider, sodiumCorpus())

	got := svc.Answer(context.Background(), "Can I eat grapefruit daily?")
	require.Contains(t, got.Answer, "Safety note: grapefruit")
}

func TestAnswer_FallbackReferencesWithoutMarks(t *testing.T) {
	provider := &fakeProvider{
		vecs:           map[string][]float32{"sodium limit summary": {1, 0}},
		reply:          "- Stick to fresh food\n- Read labels carefully",
		failQueryEmbed: true,
	}
	svc := newTestService(t, provider, sodiumCorpus())

	got := svc.Answer(context.Background(), "sodium question please")
	require.Len(t, got.ContextTexts, 1)
	require.Contains(t, got.ContextTexts[0].Text, "<mark>sodium</mark>")
	require.Equal(t, []string{"sodium limit summary"}, got.References)
}

func TestStats(t *testing.T) {
	svc := newTestService(t, &fakeProvider{}, nil)
	_, err := svc.Stats()
	require.True(t, apperr.IsUnavailable(err))

	provider := &fakeProvider{vecs: map[string][]float32{"sodium limit summary": {1, 0}}}
	svc = newTestService(t, provider, sodiumCorpus())
	stats, err := svc.Stats()
	require.NoError(t, err)
	require.Equal(t, 1, stats["texts"])
	require.Equal(t, 0, stats["images"])
	require.Equal(t, 1, stats["stored"])
}
