package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv             string
	DBPath             string
	DBDriver           string
	RedisAddr          string
	HTTPPort           int
	CORSAllowedOrigins []string
	AuthSecret         string
	CacheTTL           time.Duration
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	portStr := getEnv("HTTP_PORT", "5003")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 5003
	}

	ttlStr := getEnv("CACHE_TTL", "10m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 10 * time.Minute
	}

	origins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		DBPath:             getEnv("DB_PATH", "./data/database.db"),
		DBDriver:           getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:           port,
		CORSAllowedOrigins: origins,
		AuthSecret:         getEnv("AUTH_HMAC_SECRET", ""),
		CacheTTL:           ttl,
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
