package middleware

import (
	"net/http"
	"strings"

	"github.com/antisocial-hq/antisocial/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthRequired validates the Bearer token and puts the authenticated user
// on the context. Requests without a valid token get 401.
func AuthRequired(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			c.Abort()
			return
		}

		user, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// AuthOptional resolves the user when a valid token is present but never
// rejects the request. Read endpoints use it so anonymous viewers still get
// content, just without is_following or user_reaction annotations.
func AuthOptional(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString != "" {
			if user, err := authService.ValidateToken(tokenString); err == nil {
				c.Set("user", user)
				c.Set("user_id", user.ID)
			}
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}
