package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tasklists/internal/domain"
	"tasklists/internal/logger"
	"tasklists/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Authenticator verifies session tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// HandleWS upgrades an authenticated request and serves live views on it.
// The token comes from the token query parameter since browsers cannot set
// headers on WebSocket requests.
func HandleWS(hub *Hub, auth Authenticator, views LiveViews, allowedOrigin string, defaultLoc *time.Location) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err)
			return
		}

		client := NewClient(claims.UserID, claims.TokenID, conn, hub, views, defaultLoc)
		go client.Run()
	}
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }

func isUnauthenticated(err error) bool { return errors.Is(err, domain.ErrNotAuthenticated) }
