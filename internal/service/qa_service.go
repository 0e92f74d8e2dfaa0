package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/xxxsen/ernexus/internal/ai"
	"github.com/xxxsen/ernexus/internal/format"
	"github.com/xxxsen/ernexus/internal/guard"
	"github.com/xxxsen/ernexus/internal/model"
	"github.com/xxxsen/ernexus/internal/pkg/errors"
	"github.com/xxxsen/ernexus/internal/retrieval"
	"github.com/xxxsen/ernexus/internal/rules"
)

const unansweredText = "No answer could be generated from the retrieved context."

type QAConfig struct {
	MaxLine     int // answer bullet width
	ContextLine int // context text bullet width
	CaptionLine int // image caption display width
	MaxRefs     int
}

type QAService struct {
	retriever *retrieval.Retriever
	manager   *ai.Manager
	markdown  goldmark.Markdown
	cache     *expirable.LRU[string, string]
	cfg       QAConfig
}

func NewQAService(retriever *retrieval.Retriever, manager *ai.Manager, cfg QAConfig) *QAService {
	return &QAService{
		retriever: retriever,
		manager:   manager,
		markdown:  goldmark.New(),
		cache:     expirable.NewLRU[string, string](10000, nil, 2*time.Hour),
		cfg:       cfg,
	}
}

// Answer runs the full pipeline for one question: guard, retrieve,
// generate, shape, cite. It never returns an error for collaborator
// failures; those degrade to fallback context and an empty answer.
func (s *QAService) Answer(ctx context.Context, question string) *model.QAResult {
	question = strings.TrimSpace(question)
	if ok, msg := guard.Validate(question); !ok {
		return &model.QAResult{
			Answer:     msg,
			AnswerHTML: s.renderHTML(msg),
			Rejected:   true,
		}
	}

	result := s.retriever.Retrieve(ctx, question)
	raw := s.generate(ctx, question, result.Context)

	if notes := rules.SafetyNotes(question); notes != "" {
		raw += "\n\n- Safety note: " + notes
	}
	tidy := format.Tighten(raw, s.cfg.MaxLine)

	out := &model.QAResult{
		Answer:     tidy,
		AnswerHTML: s.renderHTML(tidy),
	}
	s.attachContext(out, result)
	s.attachReferences(out, result)
	return out
}

// Stats reports per-modality corpus sizes for the current snapshot.
func (s *QAService) Stats() (map[string]int, error) {
	snap := s.retriever.Snapshot()
	if snap == nil {
		return nil, fmt.Errorf("corpus not loaded: %w", errors.ErrUnavailable)
	}
	return map[string]int{
		"texts":  len(snap.Corpus.Texts),
		"tables": len(snap.Corpus.Tables),
		"images": len(snap.Corpus.Images),
		"stored": snap.Store.Len(),
	}, nil
}

func (s *QAService) generate(ctx context.Context, question string, rc model.RetrievalContext) string {
	contextText := strings.Join(rc.Texts, " ")
	images := make([]ai.ImagePart, 0, len(rc.Images))
	for _, im := range rc.Images {
		data, err := base64.StdEncoding.DecodeString(im.Data)
		if err != nil {
			logutil.GetLogger(ctx).Debug("skip undecodable context image", zap.Error(err))
			continue
		}
		images = append(images, ai.ImagePart{MIMEType: "image/jpeg", Data: data})
	}

	cacheKey := answerCacheKey(question, contextText)
	if len(images) == 0 {
		if cached, ok := s.cache.Get(cacheKey); ok {
			return cached
		}
	}
	raw, err := s.manager.AnswerQuestion(ctx, question, contextText, images)
	if err != nil {
		logutil.GetLogger(ctx).Warn("answer generation failed, serving context only", zap.Error(err))
		return unansweredText
	}
	if len(images) == 0 {
		s.cache.Add(cacheKey, raw)
	}
	return raw
}

func (s *QAService) attachContext(out *model.QAResult, result model.RetrievalResult) {
	for _, txt := range result.Context.Texts {
		out.ContextTexts = append(out.ContextTexts, model.TextSnippet{
			Text:       format.Bulletize(txt, s.cfg.ContextLine),
			PageNumber: "N/A",
		})
	}
	for _, im := range result.Context.Images {
		out.ContextImages = append(out.ContextImages, model.ImageHit{
			Data:    im.Data,
			Summary: format.FormatImageCaption(im.Caption, s.cfg.CaptionLine),
		})
	}
	if len(out.ContextTexts) == 0 {
		out.ContextTexts = result.FallbackTexts
	}
	if len(out.ContextImages) == 0 {
		out.ContextImages = result.FallbackImages
	}
}

func (s *QAService) attachReferences(out *model.QAResult, result model.RetrievalResult) {
	out.References = format.BuildReferences(result.Context, s.cfg.MaxRefs)
	if len(out.References) == 0 {
		out.References = format.ReferencesFromSnippets(out.ContextTexts, s.cfg.MaxRefs)
	}
}

func (s *QAService) renderHTML(text string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		return ""
	}
	return buf.String()
}

func answerCacheKey(question, contextText string) string {
	sum := sha256.Sum256([]byte(question + "\x00" + contextText))
	return hex.EncodeToString(sum[:])
}
