package controllers

import (
	"net/http"

	"ChatBuddy/models"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
)

func ListCreative(orch *services.Orchestrator, category models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFor(c)
		if !ok {
			return
		}
		recs, err := orch.GetCreativeHistory(c.Request.Context(), sess, category)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chatbot_id": sess.PersonaID, "category": category, "records": recs})
	}
}

func CreatePost(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFor(c)
		if !ok {
			return
		}
		var opts services.PostOptions
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		rec, err := orch.GeneratePost(c.Request.Context(), sess, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

func CreateStory(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFor(c)
		if !ok {
			return
		}
		var opts services.StoryOptions
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		rec, err := orch.GenerateStory(c.Request.Context(), sess, opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}
