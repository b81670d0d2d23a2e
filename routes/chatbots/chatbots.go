package chatbots

import (
	"ChatBuddy/controllers"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
)

func Register(g *gin.RouterGroup, orch *services.Orchestrator) {
	g.GET("/chatbots", controllers.ListChatbots(orch))
	g.POST("/chatbots", controllers.CreateChatbot(orch))
	g.GET("/chatbots/:id/messages", controllers.ListMessages(orch))
	g.POST("/chatbots/:id/messages", controllers.SendMessage(orch))
	g.POST("/chatbots/:id/messages/retry", controllers.RetryMessage(orch))
}
