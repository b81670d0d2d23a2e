package auth

import (
	"ChatBuddy/controllers"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
)

// RegisterPublic registers public auth routes: /register, /login
func RegisterPublic(r *gin.Engine, orch *services.Orchestrator) {
	r.POST("/register", controllers.Register(orch))
	r.POST("/login", controllers.Login(orch))
}

// RegisterProtected registers protected auth routes (e.g. logout)
func RegisterProtected(g *gin.RouterGroup, _ *services.Orchestrator) {
	g.POST("/logout", controllers.Logout())
}
