package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"tasklists/internal/logger"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres  = "postgres"
	BackendDatastore = "datastore"
	BackendMemory    = "memory"
)

// RateLimit is a fixed-window limit.
type RateLimit struct {
	Max    int
	Window time.Duration
}

type Config struct {
	AppPort string

	StoreBackend       string
	DatabaseURL        string
	DatastoreProjectID string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DefaultTimezone *time.Location
	AllowedOrigin   string

	APIRateLimit   RateLimit
	AuthRateLimit  RateLimit
	WriteRateLimit RateLimit

	LogLevel string
	LogJSON  bool
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	cfg, problems := FromEnv(os.Getenv)
	for _, p := range problems {
		logger.Error(p)
	}
	if len(problems) > 0 {
		logger.Fatal("invalid configuration")
	}
	return cfg
}

// FromEnv builds a Config from a lookup function and reports every missing
// or invalid setting.
func FromEnv(getenv func(string) string) (*Config, []string) {
	var problems []string

	cfg := &Config{
		AppPort:            withDefault(getenv("APP_PORT"), "8080"),
		StoreBackend:       strings.ToLower(withDefault(getenv("STORE_BACKEND"), BackendPostgres)),
		DatabaseURL:        getenv("DATABASE_URL"),
		DatastoreProjectID: getenv("DATASTORE_PROJECT_ID"),
		JWTSecret:          getenv("JWT_SECRET"),
		RedisAddr:          getenv("REDIS_ADDR"),
		RedisPassword:      getenv("REDIS_PASSWORD"),
		RedisDB:            positiveInt(getenv("REDIS_DB"), 0),
		AllowedOrigin:      getenv("ALLOWED_ORIGIN"),
		APIRateLimit:       rateLimit(getenv, "API", 60),
		AuthRateLimit:      rateLimit(getenv, "AUTH", 5),
		WriteRateLimit:     rateLimit(getenv, "WRITE", 30),
		LogLevel:           withDefault(getenv("LOG_LEVEL"), "info"),
		LogJSON:            getenv("LOG_JSON") == "true",
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is not set")
		}
	case BackendDatastore:
		if cfg.DatastoreProjectID == "" {
			problems = append(problems, "DATASTORE_PROJECT_ID is not set")
		}
	case BackendMemory:
	default:
		problems = append(problems, "STORE_BACKEND must be postgres, datastore or memory")
	}

	if cfg.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is not set")
	}

	cfg.DefaultTimezone = time.UTC
	if tz := getenv("DEFAULT_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			problems = append(problems, "DEFAULT_TIMEZONE is not a known time zone")
		} else {
			cfg.DefaultTimezone = loc
		}
	}

	return cfg, problems
}

// rateLimit reads <PREFIX>_RATE_LIMIT and <PREFIX>_RATE_WINDOW_SECONDS.
func rateLimit(getenv func(string) string, prefix string, def int) RateLimit {
	return RateLimit{
		Max:    positiveInt(getenv(prefix+"_RATE_LIMIT"), def),
		Window: time.Duration(positiveInt(getenv(prefix+"_RATE_WINDOW_SECONDS"), 60)) * time.Second,
	}
}

func positiveInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
