package controllers

import (
	"net/http"

	"ChatBuddy/middleware"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
)

func ListChatbots(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, _ := middleware.CurrentUserID(c)
		ps, err := orch.ListPersonas(c.Request.Context(), uid)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chatbots": ps})
	}
}

func CreateChatbot(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Name         string `json:"name" binding:"required"`
			Instructions string `json:"instructions" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Name and instructions are required"})
			return
		}
		uid, _ := middleware.CurrentUserID(c)
		p, err := orch.CreatePersona(c.Request.Context(), uid, body.Name, body.Instructions)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func ListMessages(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFor(c)
		if !ok {
			return
		}
		msgs, err := orch.GetChatHistory(c.Request.Context(), sess)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chatbot_id": sess.PersonaID, "messages": msgs})
	}
}

// SendMessage runs one chat turn. On a provider failure the response still carries
// the saved user message so the client can offer a retry.
func SendMessage(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFor(c)
		if !ok {
			return
		}
		var body struct {
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Message is required"})
			return
		}

		turn, err := orch.SendChatTurn(c.Request.Context(), sess, body.Message)
		if err != nil {
			status, code, msg := errorStatus(err)
			_ = c.Error(err)
			resp := gin.H{"msg": msg, "code": code}
			if turn != nil && turn.UserMessage != nil {
				resp["user_message"] = turn.UserMessage
			}
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, turn)
	}
}

func RetryMessage(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFor(c)
		if !ok {
			return
		}
		reply, err := orch.RetryChatTurn(c.Request.Context(), sess)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}
