package middleware

import (
	"net/http"
	"strings"

	tokenstore "ChatBuddy/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "current_user_id"
	ContextJTIKey    = "current_jti"
	ContextClaimsKey = "current_claims"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization header"})
			return
		}

		claims, err := Authenticate(c, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextJTIKey, claims.JTI)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

type authError string

func (e authError) Error() string { return string(e) }

// Authenticate validates a raw bearer token, including revocation. The websocket
// handshake shares it.
func Authenticate(c *gin.Context, tokenStr string) (*tokenstore.Claims, error) {
	claims, err := tokenstore.Parse(tokenStr)
	if err != nil {
		return nil, authError("invalid token")
	}
	if tokenstore.IsRevoked(c.Request.Context(), claims.JTI) {
		return nil, authError("Token has been revoked (logout)")
	}
	return claims, nil
}

// CurrentUserID returns the authenticated user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
