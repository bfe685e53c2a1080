package middleware

import (
	"context"
	"time"

	"tasklists/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis. It returns nil when addr is empty or the
// server does not answer, so callers fall back to in-process state.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process fallbacks", "addr", addr, "error", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// redisIncr implements a fixed-window counter using Redis INCR/EXPIRE.
func (l *RateLimiter) redisIncr(c *gin.Context, key string, period time.Duration) (int64, bool) {
	ctx := c.Request.Context()

	val, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	if val == 1 {
		// first increment, set expiry
		l.rdb.Expire(ctx, key, period)
	}
	return val, true
}
