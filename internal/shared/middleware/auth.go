package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"netflix-catalog-backend/internal/shared/response"
	"netflix-catalog-backend/pkg/jwt"
)

// Context keys set by the auth middleware.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

// Auth validates the Authorization header as "Bearer <jwt>" and stores the
// principal on the gin context.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, manager)
		if !ok {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Next()
	}
}

// AuthOrAPIKey accepts either a bearer JWT or the legacy static key form
// "Authorization: Token <GENERAL_API_KEY>" kept for older catalog clients.
func AuthOrAPIKey(manager *jwt.Manager, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		if token, ok := strings.CutPrefix(header, "Token "); ok && apiKey != "" {
			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) == 1 {
				c.Next()
				return
			}
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		claims, ok := bearerClaims(c, manager)
		if !ok {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := manager.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, false
	}

	return claims, true
}
