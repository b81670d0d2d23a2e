package services

import (
	"context"
	"fmt"
	"strings"
)

// LocalService is a deterministic offline generator for development and demos.
type LocalService struct{}

func (LocalService) Generate(ctx context.Context, systemInstruction string, history []ChatMessage, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	chat := withPrompt(history, prompt)
	var last string
	if len(chat) > 0 {
		last = strings.TrimSpace(chat[len(chat)-1].Text)
	}
	if last == "" {
		last = "your message"
	}

	b := &strings.Builder{}
	if persona := strings.TrimSpace(systemInstruction); persona != "" {
		fmt.Fprintf(b, "(%s)\n\n", truncate(persona, 80))
	}
	fmt.Fprintf(b, "You said: %s\n", truncate(last, 120))
	if turns := len(chat) - 1; turns > 0 {
		fmt.Fprintf(b, "We have exchanged %d earlier messages in this conversation.\n", turns)
	}
	fmt.Fprintln(b, "This reply was produced by the local generator; set LLM_PROVIDER to gemini or openai for real answers.")
	return b.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
