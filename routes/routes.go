package routes

import (
	"net/http"

	"ChatBuddy/middleware"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"

	authRoutes "ChatBuddy/routes/auth"
	chatbotRoutes "ChatBuddy/routes/chatbots"
	creativeRoutes "ChatBuddy/routes/creative"
	profileRoutes "ChatBuddy/routes/profile"
	websocketRoutes "ChatBuddy/routes/websocket"
)

func RegisterRoutes(r *gin.Engine, orch *services.Orchestrator) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "ChatBuddy backend running"})
	})

	websocketRoutes.Register(r, orch)
	authRoutes.RegisterPublic(r, orch)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	authRoutes.RegisterProtected(protected, orch)
	profileRoutes.Register(protected, orch)
	chatbotRoutes.Register(protected, orch)
	creativeRoutes.Register(protected, orch)
}
