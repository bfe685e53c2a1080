package handlers

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// Pinger is satisfied by store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthCheck struct {
	name  string
	probe func(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store   Pinger
	backend string
	checks  []healthCheck
	started time.Time
	version string
}

// NewHealthHandler probes store and, when rdb is non-nil, Redis.
func NewHealthHandler(store Pinger, backend string, rdb *redis.Client, version string) *HealthHandler {
	h := &HealthHandler{
		store:   store,
		backend: backend,
		started: time.Now(),
		version: version,
	}
	h.checks = append(h.checks, healthCheck{name: "store", probe: store.Ping})
	if rdb != nil {
		h.checks = append(h.checks, healthCheck{name: "redis", probe: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return h
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness only reports that the process is serving.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness runs every dependency check and reports 503 if any fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"store_backend": h.backend, "redis": "disabled"}
	healthy := true
	for _, chk := range h.checks {
		if err := chk.probe(ctx); err != nil {
			checks[chk.name] = "unhealthy: " + err.Error()
			healthy = false
			continue
		}
		checks[chk.name] = "healthy"
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = strconv.FormatFloat(float64(m.Alloc)/(1<<20), 'f', 2, 64)
	checks["goroutines"] = strconv.Itoa(runtime.NumGoroutine())

	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Health checks the store only.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version, "backend": h.backend})
}
