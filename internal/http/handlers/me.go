package handlers

import (
	"net/http"
	"time"

	"tasklists/internal/categorize"

	"github.com/gin-gonic/gin"
)

// Me returns the profile. ?sort=outstanding orders the list summaries by
// open task count.
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	profile, err := h.Tasks.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("sort") == "outstanding" {
		profile.TaskList = categorize.SortByOutstanding(profile.TaskList)
	}
	c.JSON(http.StatusOK, profile)
}

type DashboardResponse struct {
	Date     string `json:"date"`
	TimeZone string `json:"tz"`
	categorize.DashboardView
}

func (h *Handler) Dashboard(c *gin.Context) {
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

	now := h.now().In(loc)
	view, err := h.Tasks.Dashboard(c.Request.Context(), uid, now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DashboardResponse{
		Date:          now.Format(time.DateOnly),
		TimeZone:      loc.String(),
		DashboardView: view,
	})
}
