package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, problems := FromEnv(env(map[string]string{
		"DATABASE_URL": "postgres://localhost/tasks",
		"JWT_SECRET":   "s",
	}))
	assert.Empty(t, problems)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, time.UTC, cfg.DefaultTimezone)
	assert.Equal(t, RateLimit{Max: 5, Window: time.Minute}, cfg.AuthRateLimit)
	assert.Equal(t, 60, cfg.APIRateLimit.Max)
	assert.False(t, cfg.LogJSON)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, problems := FromEnv(env(map[string]string{
		"STORE_BACKEND":             "Memory",
		"JWT_SECRET":                "s",
		"DEFAULT_TIMEZONE":          "America/New_York",
		"WRITE_RATE_LIMIT":          "7",
		"WRITE_RATE_WINDOW_SECONDS": "10",
		"REDIS_DB":                  "3",
		"LOG_JSON":                  "true",
	}))
	assert.Empty(t, problems)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "America/New_York", cfg.DefaultTimezone.String())
	assert.Equal(t, RateLimit{Max: 7, Window: 10 * time.Second}, cfg.WriteRateLimit)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.LogJSON)
}

func TestFromEnv_Problems(t *testing.T) {
	_, problems := FromEnv(env(map[string]string{
		"STORE_BACKEND":    "datastore",
		"DEFAULT_TIMEZONE": "Nowhere/Land",
	}))
	assert.ElementsMatch(t, []string{
		"DATASTORE_PROJECT_ID is not set",
		"JWT_SECRET is not set",
		"DEFAULT_TIMEZONE is not a known time zone",
	}, problems)

	_, problems = FromEnv(env(map[string]string{"STORE_BACKEND": "mongo", "JWT_SECRET": "s"}))
	assert.Equal(t, []string{"STORE_BACKEND must be postgres, datastore or memory"}, problems)
}
