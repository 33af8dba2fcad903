package factory

import (
	"context"
	"fmt"

	"ai-career-counselor-be/pkg/llm"
	"ai-career-counselor-be/pkg/llm/gemini"
	"ai-career-counselor-be/pkg/llm/ollama"
)

func NewLLMProvider(ctx context.Context, providerType, modelName, baseURL, geminiAPIKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini":
		return gemini.NewGeminiProvider(ctx, geminiAPIKey, modelName)
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
