package services

import (
	"context"
	"fmt"

	"ChatBuddy/pkg/config"
)

// NewGenerator builds the provider named by config.LLMProvider.
func NewGenerator(ctx context.Context) (Generator, error) {
	switch config.LLMProvider {
	case "gemini":
		g, err := NewGeminiService(ctx)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openai":
		return NewOpenAIService(), nil
	case "local", "":
		return LocalService{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.LLMProvider)
	}
}
