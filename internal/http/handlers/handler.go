package handlers

import (
	"errors"
	"net/http"
	"time"

	"tasklists/internal/categorize"
	"tasklists/internal/domain"
	"tasklists/internal/http/middleware"
	"tasklists/internal/logger"
	"tasklists/internal/service"
	"tasklists/internal/ws"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth  *service.AuthService
	Tasks *service.TaskService
	Audit *service.AuditService
	Hub   *ws.Hub

	// DefaultLoc is used when a request names no time zone.
	DefaultLoc    *time.Location
	AllowedOrigin string

	now func() time.Time
}

func NewHandler(auth *service.AuthService, tasks *service.TaskService, audit *service.AuditService, hub *ws.Hub, defaultLoc *time.Location) *Handler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Handler{
		Auth:       auth,
		Tasks:      tasks,
		Audit:      audit,
		Hub:        hub,
		DefaultLoc: defaultLoc,
		now:        time.Now,
	}
}

// location resolves the tz query parameter.
func (h *Handler) location(c *gin.Context) (*time.Location, error) {
	return categorize.LoadLocation(c.Query("tz"), h.DefaultLoc)
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c *gin.Context) (string, bool) {
	uid := middleware.UserID(c)
	return uid, uid != ""
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
