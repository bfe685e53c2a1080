package handlers

import (
	"net/http"

	"tasklists/internal/http/middleware"
	"tasklists/internal/logger"

	"github.com/gin-gonic/gin"
)

type SignupRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	DisplayName     string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	sess, err := h.Auth.CreateAccount(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Audit.LogSignup(c.Request.Context(), sess.Account.ID, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	sess, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Audit.LogLogin(c.Request.Context(), sess.Account.ID, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, sess)
}

// Logout revokes the caller's token and closes WebSocket sessions opened
// with it.
func (h *Handler) Logout(c *gin.Context) {
	claims, err := h.Auth.SignOut(c.Request.Context(), middleware.Token(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if h.Hub != nil {
		h.Hub.DisconnectToken(claims.UserID, claims.TokenID)
	}
	h.Audit.LogLogout(c.Request.Context(), claims.UserID, c.ClientIP(), c.Request.UserAgent())
	logger.Debug("signed out", "user_id", claims.UserID)
	c.Status(http.StatusNoContent)
}
