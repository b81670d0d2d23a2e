package services

import (
	"context"
	"errors"
	"strings"

	"ChatBuddy/pkg/config"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIService talks to any OpenAI-compatible chat completions endpoint.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService() *OpenAIService {
	cfg := openai.DefaultConfig(config.OpenAIAPIKey)
	if config.OpenAIBaseURL != "" {
		cfg.BaseURL = config.OpenAIBaseURL
	}
	return &OpenAIService{client: openai.NewClientWithConfig(cfg), model: config.OpenAIModel}
}

func (s *OpenAIService) Generate(ctx context.Context, systemInstruction string, history []ChatMessage, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    toOpenAIMessages(systemInstruction, withPrompt(history, prompt)),
		MaxTokens:   2048,
		Temperature: 0.6,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(systemInstruction string, chat []ChatMessage) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(chat)+1)
	if strings.TrimSpace(systemInstruction) != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemInstruction})
	}
	for _, m := range chat {
		role := openai.ChatMessageRoleUser
		if m.Role == SpeakerModel {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	return msgs
}
