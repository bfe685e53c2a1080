package handlers

import (
	"net/http"

	"tasklists/internal/categorize"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest takes either complete_by (epoch ms) or a date with an
// optional HH:MM time in tz.
type CreateTaskRequest struct {
	Title      string `json:"title"`
	Emoji      string `json:"emoji"`
	CompleteBy int64  `json:"complete_by"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	TZ         string `json:"tz"`
}

type UpdateTaskRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	completeBy := req.CompleteBy
	if completeBy == 0 {
		loc, err := categorize.LoadLocation(req.TZ, h.DefaultLoc)
		if err != nil {
			respondError(c, err)
			return
		}
		completeBy, err = categorize.DueAt(req.Date, req.Time, loc)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	task, err := h.Tasks.AddTask(c.Request.Context(), uid, c.Param("id"), req.Title, completeBy, req.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completed is required"})
		return
	}

	task, err := h.Tasks.UpdateTaskCompletion(c.Request.Context(), uid, c.Param("id"), c.Param("taskId"), *req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) ToggleTask(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	task, err := h.Tasks.ToggleTask(c.Request.Context(), uid, c.Param("id"), c.Param("taskId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
