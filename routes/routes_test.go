package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ChatBuddy/models"
	"ChatBuddy/pkg/database"
	"ChatBuddy/pkg/services"
	tokenstore "ChatBuddy/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// scriptedGenerator returns queued results, then echoes.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	errs    []error
}

func (g *scriptedGenerator) push(reply string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies = append(g.replies, reply)
	g.errs = append(g.errs, err)
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string, _ []services.ChatMessage, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.replies) == 0 {
		return "echo: " + prompt, nil
	}
	r, err := g.replies[0], g.errs[0]
	g.replies, g.errs = g.replies[1:], g.errs[1:]
	return r, err
}

type harness struct {
	t   *testing.T
	r   *gin.Engine
	db  *gorm.DB
	gen *scriptedGenerator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokenstore.Use(tokenstore.NewMemoryRevoker())

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	gen := &scriptedGenerator{}
	r := gin.New()
	RegisterRoutes(r, services.NewOrchestrator(db, gen, 5*time.Second))
	return &harness{t: t, r: r, db: db, gen: gen}
}

func (h *harness) do(method, path, token string, body any) (int, map[string]any) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.r.ServeHTTP(w, req)
	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func (h *harness) signup(username string) string {
	h.t.Helper()
	code, body := h.do(http.MethodPost, "/register", "", gin.H{"username": username, "password": "pw1", "confirm_password": "pw1"})
	require.Equal(h.t, http.StatusCreated, code, body)
	require.Equal(h.t, true, body["seeded"])
	code, body = h.do(http.MethodPost, "/login", "", gin.H{"username": username, "password": "pw1"})
	require.Equal(h.t, http.StatusOK, code, body)
	return body["access_token"].(string)
}

func TestRegisterLoginLogout(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "pw1", "confirm_password": "pw2"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Passwords do not match", body["msg"])

	code, _ = h.do(http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "password", "confirm_password": "password"})
	assert.Equal(t, http.StatusBadRequest, code)

	tok := h.signup("alice")

	code, body = h.do(http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "pw9", "confirm_password": "pw9"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Username already exists", body["msg"])

	code, body = h.do(http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code2, body2 := h.do(http.MethodPost, "/login", "", gin.H{"username": "ghost", "password": "wrong1"})
	assert.Equal(t, code, code2)
	assert.Equal(t, body, body2)

	code, body = h.do(http.MethodGet, "/profile", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["username"])
	assert.EqualValues(t, 2, body["persona_count"])

	code, _ = h.do(http.MethodPost, "/logout", tok, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = h.do(http.MethodGet, "/profile", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	h := newHarness(t)
	pw := strings.Repeat("a1", 40)

	code, body := h.do(http.MethodPost, "/register", "", gin.H{"username": "longpw", "password": pw, "confirm_password": pw})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["msg"])
}

func TestRegisterReportsUnseededAccount(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.db.Migrator().DropTable(&models.Persona{}))

	code, body := h.do(http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "pw1", "confirm_password": "pw1"})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, false, body["seeded"])

	code, body = h.do(http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "pw1"})
	assert.Equal(t, http.StatusOK, code, body)
	assert.NotEmpty(t, body["access_token"])
}

func TestChatOverHTTP(t *testing.T) {
	h := newHarness(t)
	tok := h.signup("alice")

	code, body := h.do(http.MethodPost, "/chatbots", tok, gin.H{"name": "Chef Bot", "instructions": "You are a chef."})
	require.Equal(t, http.StatusCreated, code, body)
	chef := uint(body["id"].(float64))

	code, body = h.do(http.MethodGet, "/chatbots", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["chatbots"], 3)

	h.gen.push("Hi there", nil)
	path := fmt.Sprintf("/chatbots/%d/messages", chef)
	code, body = h.do(http.MethodPost, path, tok, gin.H{"message": "Hello"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Hi there", body["reply"].(map[string]any)["content"])

	h.gen.push("", errors.New("status 503: unavailable"))
	code, body = h.do(http.MethodPost, path, tok, gin.H{"message": "Still there?"})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "provider_error", body["code"])
	assert.Equal(t, "Still there?", body["user_message"].(map[string]any)["content"])

	h.gen.push("Yes!", nil)
	code, body = h.do(http.MethodPost, path+"/retry", tok, nil)
	require.Equal(t, http.StatusOK, code, body)
	code, _ = h.do(http.MethodPost, path+"/retry", tok, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body = h.do(http.MethodGet, path, tok, nil)
	require.Equal(t, http.StatusOK, code)
	msgs := body["messages"].([]any)
	var got []string
	for _, m := range msgs {
		mm := m.(map[string]any)
		got = append(got, mm["role"].(string)+":"+mm["content"].(string))
	}
	assert.Equal(t, []string{"user:Hello", "bot:Hi there", "user:Still there?", "bot:Yes!"}, got)
}

func TestCreativeOverHTTP(t *testing.T) {
	h := newHarness(t)
	tok := h.signup("alice")

	h.gen.push("", nil)
	code, body := h.do(http.MethodPost, "/chatbots/1/posts", tok, gin.H{"topic": "space travel", "tone": "Humorous", "length": "Short"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "The model returned no content, please try again", body["msg"])

	code, _ = h.do(http.MethodPost, "/chatbots/1/posts", tok, gin.H{"topic": "x", "tone": "Angry", "length": "Short"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = h.do(http.MethodPost, "/chatbots/1/stories", tok, gin.H{"genre": "Fantasy", "characters": "a dragon", "plot": "lost gold", "length": "Short"})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "story", body["category"])
	assert.Equal(t, "Fantasy", body["params"].(map[string]any)["genre"])

	code, body = h.do(http.MethodGet, "/chatbots/1/posts", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["records"])
	code, body = h.do(http.MethodGet, "/chatbots/1/stories", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["records"], 1)
}

func TestOtherUsersChatbotIsNotFound(t *testing.T) {
	h := newHarness(t)
	h.signup("alice")
	bob := h.signup("bob")

	for _, path := range []string{"/chatbots/1/messages", "/chatbots/1/posts", "/chatbots/1/stories", "/chatbots/abc/messages"} {
		code, _ := h.do(http.MethodGet, path, bob, nil)
		assert.Equal(t, http.StatusNotFound, code, path)
	}
	code, _ := h.do(http.MethodPost, "/chatbots/1/messages", bob, gin.H{"message": "hi"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestChatOverWebSocket(t *testing.T) {
	h := newHarness(t)
	tok := h.signup("alice")
	srv := httptest.NewServer(h.r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() map[string]any {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var m map[string]any
		require.NoError(t, conn.ReadJSON(&m))
		return m
	}

	h.gen.push("Bonjour!", nil)
	require.NoError(t, conn.WriteJSON(gin.H{"type": "chat", "chatbot_id": 1, "message": "Hello"}))
	assert.Equal(t, "user_saved", read()["type"])
	reply := read()
	assert.Equal(t, "reply", reply["type"])
	assert.Equal(t, "Bonjour!", reply["message"].(map[string]any)["content"])

	h.gen.push("", errors.New("boom"))
	require.NoError(t, conn.WriteJSON(gin.H{"type": "chat", "chatbot_id": 1, "message": "Again"}))
	assert.Equal(t, "user_saved", read()["type"])
	failed := read()
	assert.Equal(t, "error", failed["type"])
	assert.Equal(t, "provider_error", failed["code"])

	require.NoError(t, conn.WriteJSON(gin.H{"type": "retry", "chatbot_id": 1}))
	retried := read()
	assert.Equal(t, "reply", retried["type"])
	assert.Equal(t, "echo: Again", retried["message"].(map[string]any)["content"])

	require.NoError(t, conn.WriteJSON(gin.H{"type": "chat", "chatbot_id": 99, "message": "x"}))
	assert.Equal(t, "not_found", read()["code"])
}

func TestWebSocketRequiresToken(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(h.r)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/chat", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
