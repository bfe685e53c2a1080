package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasklists/internal/bootstrap"
	"tasklists/internal/config"
	"tasklists/internal/feed"
	httpServer "tasklists/internal/http"
	"tasklists/internal/http/handlers"
	"tasklists/internal/http/middleware"
	"tasklists/internal/logger"
	"tasklists/internal/service"
	"tasklists/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()

	backend, err := bootstrap.Open(ctx, cfg, true)
	if err != nil {
		logger.Fatal("failed to open store", "error", err)
	}
	defer backend.Close()

	jwt, err := service.NewJWTManager(cfg.JWTSecret, service.DefaultTokenTTL)
	if err != nil {
		logger.Fatal("jwt", "error", err)
	}

	// Redis is optional: without it the feed, revocation and rate limits
	// stay in this process.
	rdb := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	var (
		broker  feed.Broker = feed.NewLocalBroker()
		revoker service.TokenRevoker = service.NewMemoryRevoker()
	)
	if rdb != nil {
		defer rdb.Close()
		rb, err := feed.NewRedisBroker(ctx, rdb)
		if err != nil {
			logger.Fatal("failed to start redis feed", "error", err)
		}
		defer rb.Close()
		broker = rb
		revoker = service.NewRedisRevoker(rdb)
		logger.Info("redis connected", "addr", cfg.RedisAddr)
	}

	audit := service.NewAuditService(backend.AuditRepo)
	auth := service.NewAuthService(backend.Store, jwt, revoker)
	tasks := service.NewTaskService(backend.Store, broker, audit)

	h := handlers.NewHandler(auth, tasks, audit, ws.NewHub(), cfg.DefaultTimezone)
	h.AllowedOrigin = cfg.AllowedOrigin

	limiter := middleware.NewRateLimiter(rdb)
	if rdb == nil {
		go sweep(limiter, cfg)
	}

	r := gin.Default()
	r.Use(httpServer.CORS(cfg.AllowedOrigin))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler: h,
		Health:  handlers.NewHealthHandler(backend.Store, backend.Name, rdb, version),
		Limiter: limiter,
		Limits:  httpServer.LimitsFromConfig(cfg),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// sweep drops stale in-memory rate limit windows.
func sweep(l *middleware.RateLimiter, cfg *config.Config) {
	longest := cfg.APIRateLimit.Window
	for _, w := range []time.Duration{cfg.AuthRateLimit.Window, cfg.WriteRateLimit.Window} {
		if w > longest {
			longest = w
		}
	}
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.Sweep(longest)
	}
}
