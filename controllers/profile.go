package controllers

import (
	"net/http"

	"ChatBuddy/middleware"
	"ChatBuddy/pkg/services"

	"github.com/gin-gonic/gin"
)

// Profile is read-only; accounts cannot be edited.
func Profile(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}
		p, err := orch.Profile(c.Request.Context(), uid)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
