package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// KeyFunc picks the identity a limit applies to. An empty key skips the
// limit.
type KeyFunc func(c *gin.Context) string

// ByIP limits per client address.
func ByIP(c *gin.Context) string { return c.ClientIP() }

// ByUser limits per authenticated user; JWT must run first.
func ByUser(c *gin.Context) string { return UserID(c) }

// RateLimiter applies fixed-window limits. With a Redis client the counters
// are shared between instances, otherwise they live in this process.
type RateLimiter struct {
	rdb *redis.Client

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb, windows: make(map[string]*window)}
}

// Limit blocks an identity that sends more than max requests per period.
// name prefixes the counter key so separate limits do not share counts.
func (l *RateLimiter) Limit(name string, max int, period time.Duration, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := key(c)
		if ident == "" || max <= 0 {
			c.Next()
			return
		}

		k := "rl:" + name + ":" + strconv.FormatInt(int64(period.Seconds()), 10) + ":" + ident

		var (
			count int64
			ok    bool
		)
		if l.rdb != nil {
			count, ok = l.redisIncr(c, k, period)
		} else {
			count, ok = l.memoryIncr(k, period), true
		}
		if !ok {
			// on Redis error, fail-open (allow) but set header
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		endpoint := name + ":" + c.FullPath()
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining(max, count), 10))

		if count > int64(max) {
			RLBlocked.WithLabelValues(endpoint).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(period.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(endpoint).Inc()
		c.Next()
	}
}

func (l *RateLimiter) memoryIncr(key string, period time.Duration) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > period {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++
	return int64(w.count)
}

// Sweep drops expired in-memory windows.
func (l *RateLimiter) Sweep(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	for k, w := range l.windows {
		if now.Sub(w.start) > maxAge {
			delete(l.windows, k)
		}
	}
}

func remaining(max int, count int64) int64 {
	if r := int64(max) - count; r > 0 {
		return r
	}
	return 0
}
