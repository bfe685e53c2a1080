package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(l *RateLimiter, max int, w time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", l.Limit("test", max, w, ByIP), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func hit(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestMemoryRateLimit(t *testing.T) {
	r := limitedRouter(NewRateLimiter(nil), 2, time.Minute)

	assert.Equal(t, http.StatusOK, hit(r).Code)
	res := hit(r)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "0", res.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)
}

func TestMemoryRateLimit_WindowResets(t *testing.T) {
	r := limitedRouter(NewRateLimiter(nil), 1, 50*time.Millisecond)

	assert.Equal(t, http.StatusOK, hit(r).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(r).Code)
}

func TestRateLimit_ByUserSkipsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewRateLimiter(nil)
	r := gin.New()
	r.GET("/test", l.Limit("write", 1, time.Minute, ByUser), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r).Code)
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	rdb := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), db)
	require.NotNil(t, rdb)
	defer rdb.Close()

	// small window for test
	w := 2 * time.Second
	max := 2

	srv := httptest.NewServer(limitedRouter(NewRateLimiter(rdb), max, w))
	defer srv.Close()

	client := &http.Client{}

	// do max allowed requests
	for i := 0; i < max; i++ {
		res, err := client.Get(srv.URL + "/test")
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
	}

	// next request should be blocked
	res, err := client.Get(srv.URL + "/test")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}
