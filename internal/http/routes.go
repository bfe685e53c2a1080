package http

import (
	"tasklists/internal/config"
	"tasklists/internal/http/handlers"
	"tasklists/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router needs.
type Deps struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Limiter *middleware.RateLimiter
	Limits  Limits
}

type Limits struct {
	API   config.RateLimit
	Auth  config.RateLimit
	Write config.RateLimit
}

// LimitsFromConfig copies the rate limits out of cfg.
func LimitsFromConfig(cfg *config.Config) Limits {
	return Limits{API: cfg.APIRateLimit, Auth: cfg.AuthRateLimit, Write: cfg.WriteRateLimit}
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := d.Handler
	rl := d.Limiter
	if rl == nil {
		rl = middleware.NewRateLimiter(nil)
	}

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Live views
	r.GET("/ws", h.WS())

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(rl.Limit("api", d.Limits.API.Max, d.Limits.API.Window, middleware.ByIP))

	authRL := rl.Limit("auth", d.Limits.Auth.Max, d.Limits.Auth.Window, middleware.ByIP)
	v1.POST("/auth/signup", authRL, h.Signup)
	v1.POST("/auth/login", authRL, h.Login)

	authed := v1.Group("")
	authed.Use(middleware.JWT(h.Auth))
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/me", h.Me)
		authed.GET("/dashboard", h.Dashboard)

		// per user, not per IP
		writeRL := rl.Limit("write", d.Limits.Write.Max, d.Limits.Write.Window, middleware.ByUser)

		lists := authed.Group("/lists")
		lists.GET("", h.ListLists)
		lists.POST("", writeRL, h.CreateList)
		lists.GET("/:id", h.GetList)
		lists.GET("/:id/view", h.ListView)
		lists.DELETE("/:id", writeRL, h.DeleteList)

		lists.POST("/:id/tasks", writeRL, h.CreateTask)
		lists.PATCH("/:id/tasks/:taskId", writeRL, h.UpdateTask)
		lists.POST("/:id/tasks/:taskId/toggle", writeRL, h.ToggleTask)
	}
}

// CORS reflects the allowed origin, or any origin when allowed is empty.
func CORS(allowed string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowed == "" || origin == allowed) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
