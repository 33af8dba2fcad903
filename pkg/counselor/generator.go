package counselor

import (
	"context"

	"ai-career-counselor-be/internal/constant"
	"ai-career-counselor-be/internal/pkg/logger"
	"ai-career-counselor-be/pkg/llm"
)

// Generator produces counselor replies. Every external failure mode is
// absorbed here: both entry points always return usable text and never
// an error, so the conversation turn can be persisted regardless.
type Generator struct {
	provider llm.LLMProvider
	log      logger.ILogger
}

func NewGenerator(provider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		provider: provider,
		log:      log,
	}
}

// GenerateResponse answers a single user message with no prior history.
func (g *Generator) GenerateResponse(ctx context.Context, userMessage string) string {
	messages := append(BuildContext(nil), llm.Message{Role: llmRoleUser, Content: userMessage})

	reply, err := g.provider.Chat(ctx, messages)
	if err != nil {
		g.log.Error("counselor", "generation failed", map[string]interface{}{"error": err.Error()})
		return constant.GenerationApology
	}
	if reply == "" {
		return constant.EmptyGenerationFallback
	}
	return reply
}

// GenerateContextualResponse answers a user message with the prior
// conversation replayed as context. history is the chronological
// transcript including the message being answered as its last entry.
// A failed contextual call falls back to the single-turn path before
// giving up with the apology.
func (g *Generator) GenerateContextualResponse(ctx context.Context, userMessage string, history []Turn) string {
	messages := append(BuildContext(history), llm.Message{Role: llmRoleUser, Content: userMessage})

	reply, err := g.provider.Chat(ctx, messages)
	if err != nil {
		g.log.Warn("counselor", "contextual generation failed, retrying without history", map[string]interface{}{"error": err.Error()})
		return g.GenerateResponse(ctx, userMessage)
	}
	if reply == "" {
		return constant.EmptyGenerationFallback
	}
	return reply
}
