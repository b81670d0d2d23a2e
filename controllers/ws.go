package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ChatBuddy/middleware"
	"ChatBuddy/pkg/logger"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS handled at HTTP level; allow WS here
		return true
	},
}

const wsReadTimeout = 60 * time.Second

type wsFrame struct {
	Type      string `json:"type"`
	ChatbotID uint   `json:"chatbot_id"`
	Message   string `json:"message"`
}

// ChatWS serves chat turns over one WebSocket. Replies arrive whole.
// Client protocol (JSON messages):
//
//	-> {type: "chat", chatbot_id: number, message: string}
//	-> {type: "retry", chatbot_id: number}
//	<- {type: "user_saved", chatbot_id: number, message: Message}
//	<- {type: "reply", chatbot_id: number, message: Message}
//	<- {type: "error", chatbot_id: number, code: string, error: string}
func ChatWS(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authenticate via ?token=JWT
		tokenStr := strings.TrimSpace(c.Query("token"))
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing token query"})
			return
		}
		claims, err := middleware.Authenticate(c, tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			return
		}
		c.Set(middleware.ContextUserIDKey, claims.UserID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx).With("user_id", claims.UserID)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("ws upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		conn.SetReadLimit(1 << 20) // 1MB
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		})

		for {
			// the deadline is reset per frame because a model call may outlast it
			if err := conn.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
				return
			}
			mt, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Info("ws read ended", "error", err)
				}
				return
			}
			if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
				continue
			}

			var f wsFrame
			if err := json.Unmarshal(raw, &f); err != nil {
				_ = conn.WriteJSON(gin.H{"type": "error", "code": "invalid_input", "error": "invalid frame"})
				continue
			}
			sess := services.Session{UserID: claims.UserID, PersonaID: f.ChatbotID}

			switch strings.ToLower(strings.TrimSpace(f.Type)) {
			case "chat":
				turn, err := orch.SendChatTurn(ctx, sess, f.Message)
				if turn != nil && turn.UserMessage != nil {
					_ = conn.WriteJSON(gin.H{"type": "user_saved", "chatbot_id": f.ChatbotID, "message": turn.UserMessage})
				}
				if err != nil {
					writeWSError(conn, f.ChatbotID, err)
					continue
				}
				_ = conn.WriteJSON(gin.H{"type": "reply", "chatbot_id": f.ChatbotID, "message": turn.Reply})
			case "retry":
				reply, err := orch.RetryChatTurn(ctx, sess)
				if err != nil {
					writeWSError(conn, f.ChatbotID, err)
					continue
				}
				_ = conn.WriteJSON(gin.H{"type": "reply", "chatbot_id": f.ChatbotID, "message": reply})
			default:
				_ = conn.WriteJSON(gin.H{"type": "error", "chatbot_id": f.ChatbotID, "code": "invalid_input", "error": "unknown frame type"})
			}
		}
	}
}

func writeWSError(conn *websocket.Conn, chatbotID uint, err error) {
	_, code, msg := errorStatus(err)
	_ = conn.WriteJSON(gin.H{"type": "error", "chatbot_id": chatbotID, "code": code, "error": msg})
}
