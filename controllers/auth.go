package controllers

import (
	"net/http"
	"strings"
	"time"

	"ChatBuddy/middleware"
	"ChatBuddy/pkg/logger"
	"ChatBuddy/pkg/services"
	tokenstore "ChatBuddy/pkg/token"
	"ChatBuddy/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Register handler. Seeding the default chatbots runs after the account exists;
// if it fails the account stays and "seeded" is false.
func Register(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Username        string `json:"username"`
			Password        string `json:"password"`
			ConfirmPassword string `json:"confirm_password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}

		username := strings.TrimSpace(body.Username)
		if username == "" || body.Password == "" || body.ConfirmPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Username, password, and confirm password are required"})
			return
		}
		if body.Password != body.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Passwords do not match"})
			return
		}
		if msg := utils.PasswordProblem(body.Password); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
			return
		}

		res, err := orch.RegisterUser(c.Request.Context(), username, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"msg":      "User created",
			"id":       res.User.ID,
			"username": res.User.Username,
			"seeded":   res.Seeded(),
		})
	}
}

// Login handler
func Login(orch *services.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		if strings.TrimSpace(body.Username) == "" || body.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Username and password are required"})
			return
		}

		user, err := orch.Authenticate(c.Request.Context(), body.Username, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		tokenStr, claims, err := tokenstore.Issue(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token": tokenStr,
			"username":     user.Username,
			"expires_at":   claims.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
}

// Logout handler
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(middleware.ContextClaimsKey)
		claims, ok := v.(*tokenstore.Claims)
		if ok && claims.JTI != "" {
			if err := tokenstore.RevokeToken(c.Request.Context(), claims.JTI, time.Until(claims.ExpiresAt)); err != nil {
				logger.FromContext(c.Request.Context()).Error("revoke token failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to log out"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"msg": "logged out"})
	}
}
