package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ChatBuddy/pkg/config"
	"ChatBuddy/pkg/logger"

	"google.golang.org/genai"
)

var ErrGeminiDisabled = errors.New("gemini is not configured")

type GeminiService struct {
	client *genai.Client
	models []string
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	if strings.TrimSpace(config.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrGeminiDisabled)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiService{client: client, models: fallbackModels(config.GeminiModel, "gemini-2.0-flash")}, nil
}

// Generate tries each model in turn, retrying once after a short pause when the
// API reports overload or quota exhaustion.
func (s *GeminiService) Generate(ctx context.Context, systemInstruction string, history []ChatMessage, prompt string) (string, error) {
	contents := toGeminiContents(withPrompt(history, prompt))

	temp := float32(0.6)
	topP := float32(0.9)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: int32(2048),
	}
	if strings.TrimSpace(systemInstruction) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	log := logger.FromContext(ctx)
	var failures []string
	for _, m := range s.models {
		text, err := s.call(ctx, m, contents, cfg)
		if err != nil && isRetriable(err) {
			sleepWithContext(ctx, 2*time.Second)
			text, err = s.call(ctx, m, contents, cfg)
		}
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		if err == nil {
			err = errors.New("empty response")
		}
		log.Warn("gemini model failed", "model", m, "error", err)
		failures = append(failures, fmt.Sprintf("%s -> %v", m, err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all gemini models failed: %s", strings.Join(failures, "; "))
}

func (s *GeminiService) call(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	res, err := s.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

func toGeminiContents(chat []ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(chat))
	for _, m := range chat {
		role := genai.RoleUser
		if strings.EqualFold(strings.TrimSpace(m.Role), SpeakerModel) {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, genai.Role(role)))
	}
	return contents
}

// fallbackModels drops blanks and duplicates, keeping order.
func fallbackModels(names ...string) []string {
	var out []string
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isRetriable(err error) bool {
	if err == nil {
		return false
	}
	e := strings.ToLower(err.Error())
	if strings.Contains(e, "503") || strings.Contains(e, "unavailable") {
		return true
	}
	if strings.Contains(e, "429") || strings.Contains(e, "resource_exhausted") || strings.Contains(e, "quota") {
		return true
	}
	return false
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
