package handlers

import (
	"net/http"

	"tasklists/internal/categorize"
	"tasklists/internal/domain"

	"github.com/gin-gonic/gin"
)

type CreateListRequest struct {
	Title string `json:"title" binding:"required"`
	Emoji string `json:"emoji"`
}

func (h *Handler) ListLists(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	lists, err := h.Tasks.Lists(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if lists == nil {
		lists = []*domain.TaskList{}
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

func (h *Handler) CreateList(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	l, err := h.Tasks.CreateList(c.Request.Context(), uid, req.Title, req.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) GetList(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	l, err := h.Tasks.GetList(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

type ListViewResponse struct {
	List   *domain.TaskList            `json:"list"`
	Date   string                      `json:"date"`
	View   categorize.ListView         `json:"view"`
	States map[string]categorize.State `json:"states"`
}

// ListView returns the list split into completed, incomplete and overdue
// tasks. ?date=YYYY-MM-DD limits incomplete tasks to that day; the default
// is all days.
func (h *Handler) ListView(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	loc, err := h.location(c)
	if err != nil {
		respondError(c, err)
		return
	}
	filter, err := categorize.ParseDateFilter(c.Query("date"), loc)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now().In(loc)
	l, view, err := h.Tasks.ListView(c.Request.Context(), uid, c.Param("id"), now, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListViewResponse{
		List:   l,
		Date:   filter.String(),
		View:   view,
		States: categorize.States(l.Tasks, now),
	})
}

func (h *Handler) DeleteList(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if err := h.Tasks.DeleteList(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
