package counselor

import (
	"context"
	"errors"
	"testing"

	"ai-career-counselor-be/internal/constant"
	"ai-career-counselor-be/internal/pkg/logger"
	"ai-career-counselor-be/pkg/llm"
)

// scriptedProvider returns canned replies, failing the first n calls.
type scriptedProvider struct {
	reply    string
	failures int
	calls    int
	lastLen  int
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	p.lastLen = len(history)
	if p.calls <= p.failures {
		return "", errors.New("provider unavailable")
	}
	return p.reply, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func TestGenerateResponse(t *testing.T) {
	provider := &scriptedProvider{reply: "try informational interviews"}
	g := NewGenerator(provider, logger.NewNopLogger())

	got := g.GenerateResponse(context.Background(), "how do I switch industries?")
	if got != "try informational interviews" {
		t.Errorf("reply = %q", got)
	}
	// priming pair + the single user turn
	if provider.lastLen != 3 {
		t.Errorf("context length = %d, want 3", provider.lastLen)
	}
}

func TestGenerateResponseApologyOnFailure(t *testing.T) {
	provider := &scriptedProvider{failures: 10}
	g := NewGenerator(provider, logger.NewNopLogger())

	got := g.GenerateResponse(context.Background(), "anything")
	if got != constant.GenerationApology {
		t.Errorf("reply = %q, want the apology", got)
	}
}

func TestGenerateResponseEmptyReplyFallback(t *testing.T) {
	provider := &scriptedProvider{reply: ""}
	g := NewGenerator(provider, logger.NewNopLogger())

	got := g.GenerateResponse(context.Background(), "anything")
	if got != constant.EmptyGenerationFallback {
		t.Errorf("reply = %q, want the empty-reply fallback", got)
	}
}

func TestGenerateContextualResponseFallsBackToSingleTurn(t *testing.T) {
	// First (contextual) call fails, the single-turn retry succeeds.
	provider := &scriptedProvider{reply: "retry worked", failures: 1}
	g := NewGenerator(provider, logger.NewNopLogger())

	history := []Turn{
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "q2"},
	}
	got := g.GenerateContextualResponse(context.Background(), "q2", history)
	if got != "retry worked" {
		t.Errorf("reply = %q", got)
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want contextual call plus single-turn retry", provider.calls)
	}
}

func TestGenerateContextualResponseApologyWhenRetryFails(t *testing.T) {
	provider := &scriptedProvider{failures: 2}
	g := NewGenerator(provider, logger.NewNopLogger())

	got := g.GenerateContextualResponse(context.Background(), "q", []Turn{{Role: "user", Content: "q"}})
	if got != constant.GenerationApology {
		t.Errorf("reply = %q, want the apology", got)
	}
}
