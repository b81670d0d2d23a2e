package profile

import (
	"ChatBuddy/controllers"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register expects the group to already have AuthMiddleware applied
func Register(g *gin.RouterGroup, orch *services.Orchestrator) {
	g.GET("/profile", controllers.Profile(orch))
}
