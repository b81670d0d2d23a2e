package creative

import (
	"ChatBuddy/controllers"
	"ChatBuddy/models"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
)

func Register(g *gin.RouterGroup, orch *services.Orchestrator) {
	g.GET("/chatbots/:id/posts", controllers.ListCreative(orch, models.CategoryPost))
	g.POST("/chatbots/:id/posts", controllers.CreatePost(orch))
	g.GET("/chatbots/:id/stories", controllers.ListCreative(orch, models.CategoryStory))
	g.POST("/chatbots/:id/stories", controllers.CreateStory(orch))
}
