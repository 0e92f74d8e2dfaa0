package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Answer constraints live in the prompt; the formatting pipeline enforces
// them again on the way out.
const personaPrompt = `You are ER-NEXUS. Use ONLY the supplied context. If missing, say what's missing briefly.

Answer constraints:
- 4-6 concise bullets, each <= 18 words
- No "consult your healthcare provider" phrasing

Context:
%s

Question:
%s`

type ManagerConfig struct {
	Timeout int // seconds per generator call
}

// Manager is the QA-facing surface over a generator and an embedder.
type Manager struct {
	generator IGenerator
	embedder  IEmbedder
	cfg       ManagerConfig
}

func NewManager(generator IGenerator, embedder IEmbedder, cfg ManagerConfig) *Manager {
	return &Manager{generator: generator, embedder: embedder, cfg: cfg}
}

func (m *Manager) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if m.embedder == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	return m.embedder.Embed(ctx, text, taskType)
}

func (m *Manager) EmbeddingModelName() string {
	if m.embedder == nil {
		return ""
	}
	return m.embedder.ModelName()
}

// AnswerQuestion renders the persona prompt over the retrieved context and
// calls the generator with any context images attached inline.
func (m *Manager) AnswerQuestion(ctx context.Context, question, contextText string, images []ImagePart) (string, error) {
	if m.generator == nil {
		return "", fmt.Errorf("generator not configured")
	}
	prompt := fmt.Sprintf(personaPrompt, contextText, question)
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	resp, err := m.generator.Generate(ctx, prompt, images)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}
