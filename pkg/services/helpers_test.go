package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"ChatBuddy/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "chatbuddy_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type generateCall struct {
	System  string
	History []ChatMessage
	Prompt  string
}

// stubGenerator answers with reply/err and records every call.
type stubGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []generateCall
}

func (g *stubGenerator) Generate(ctx context.Context, system string, history []ChatMessage, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, generateCall{System: system, History: append([]ChatMessage(nil), history...), Prompt: prompt})
	return g.reply, g.err
}

func (g *stubGenerator) set(reply string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reply, g.err = reply, err
}

func (g *stubGenerator) lastCall(t *testing.T) generateCall {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	require.NotEmpty(t, g.calls, "generator was never called")
	return g.calls[len(g.calls)-1]
}

func newTestOrchestrator(t *testing.T, gen Generator) *Orchestrator {
	t.Helper()
	return NewOrchestrator(openTestDB(t), gen, 0)
}

func mustRegister(t *testing.T, o *Orchestrator, handle string) uint {
	t.Helper()
	res, err := o.RegisterUser(context.Background(), handle, "secret1")
	require.NoError(t, err)
	require.True(t, res.Seeded())
	return res.User.ID
}
