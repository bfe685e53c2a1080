package middleware

import (
	"context"
	"net/http"
	"strings"

	"tasklists/internal/logger"
	"tasklists/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID  = "user_id"
	ctxTokenID = "token_id"
	ctxToken   = "token"
)

// Authenticator verifies session tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// JWT requires a valid "Authorization: Bearer <token>" header and stores the
// caller's identity on the context.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxTokenID, claims.TokenID)
		c.Set(ctxToken, token)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), "user_id", claims.UserID))
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// UserID returns the authenticated user id, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// Token returns the raw token the request was authenticated with.
func Token(c *gin.Context) string {
	return c.GetString(ctxToken)
}
