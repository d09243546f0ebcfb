package models

import (
	"context"
	"fmt"
)

// NewChatModel builds a ChatModel for the named provider. The openai and
// anthropic providers support native function calling; ollama and gemini are
// plain-completion providers.
func NewChatModel(ctx context.Context, provider, model, apiKey string) (ChatModel, error) {
	switch provider {
	case "openai":
		return NewOpenAILLM(model, apiKey), nil
	case "anthropic", "claude":
		return NewAnthropicLLM(model, apiKey), nil
	case "ollama":
		return NewOllamaLLM(model)
	case "gemini", "google":
		return NewGeminiLLM(ctx, model)
	case "dummy":
		return NewDummyLLM(""), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
