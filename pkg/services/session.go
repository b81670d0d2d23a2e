package services

import (
	"context"
	"strings"
)

// Session is the explicit per-call identity a driver hands to the orchestrator.
type Session struct {
	UserID    uint
	PersonaID uint
}

// ChatMessage is one provider-facing turn. Role is "user" or "model".
type ChatMessage struct {
	Role string
	Text string
}

const (
	SpeakerUser  = "user"
	SpeakerModel = "model"
)

// Generator is the external model capability.
type Generator interface {
	Generate(ctx context.Context, systemInstruction string, history []ChatMessage, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, systemInstruction string, history []ChatMessage, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, systemInstruction string, history []ChatMessage, prompt string) (string, error) {
	return f(ctx, systemInstruction, history, prompt)
}

// withPrompt returns the turns to send: history followed by prompt, unless the
// transcript already ends with that exact user turn.
func withPrompt(history []ChatMessage, prompt string) []ChatMessage {
	out := make([]ChatMessage, 0, len(history)+1)
	out = append(out, history...)
	if n := len(history); n > 0 && history[n-1].Role == SpeakerUser &&
		strings.TrimSpace(history[n-1].Text) == strings.TrimSpace(prompt) {
		return out
	}
	if strings.TrimSpace(prompt) == "" {
		return out
	}
	return append(out, ChatMessage{Role: SpeakerUser, Text: prompt})
}
