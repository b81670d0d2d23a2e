package websocket

import (
	"ChatBuddy/controllers"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register mounts /ws/chat. It authenticates through ?token= rather than a header.
func Register(r *gin.Engine, orch *services.Orchestrator) {
	r.GET("/ws/chat", controllers.ChatWS(orch))
}
