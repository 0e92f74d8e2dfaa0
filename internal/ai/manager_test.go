package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedGenerator struct {
	reply      string
	err        error
	lastPrompt string
	lastImages []ImagePart
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string, images []ImagePart) (string, error) {
	g.lastPrompt = prompt
	g.lastImages = images
	return g.reply, g.err
}

func TestAnswerQuestion_RendersPersonaPrompt(t *testing.T) {
	gen := &scriptedGenerator{reply: "  - bullet one\n- bullet two  "}
	m := NewManager(gen, nil, ManagerConfig{})

	got, err := m.AnswerQuestion(context.Background(), "what about sodium?", "sodium context here", []ImagePart{{MIMEType: "image/jpeg", Data: []byte{1}}})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if got != "- bullet one\n- bullet two" {
		t.Fatalf("response not trimmed: %q", got)
	}
	if !strings.Contains(gen.lastPrompt, "sodium context here") {
		t.Fatalf("context missing from prompt:\n%s", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastPrompt, "what about sodium?") {
		t.Fatalf("question missing from prompt:\n%s", gen.lastPrompt)
	}
	if len(gen.lastImages) != 1 {
		t.Fatalf("images not forwarded")
	}
}

func TestAnswerQuestion_EmptyResponseIsError(t *testing.T) {
	m := NewManager(&scriptedGenerator{reply: "   "}, nil, ManagerConfig{})
	if _, err := m.AnswerQuestion(context.Background(), "q about sodium", "ctx", nil); err == nil {
		t.Fatalf("expected error for blank response")
	}
}

func TestAnswerQuestion_GeneratorErrorPassesThrough(t *testing.T) {
	boom := errors.New("quota exhausted")
	m := NewManager(&scriptedGenerator{err: boom}, nil, ManagerConfig{Timeout: 5})
	if _, err := m.AnswerQuestion(context.Background(), "q about sodium", "ctx", nil); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestAnswerQuestion_NoGenerator(t *testing.T) {
	m := NewManager(nil, nil, ManagerConfig{})
	if _, err := m.AnswerQuestion(context.Background(), "q", "ctx", nil); err == nil {
		t.Fatalf("expected error without generator")
	}
}
