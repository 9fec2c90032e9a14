package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings read from the environment.
type Config struct {
	Port        string
	Environment string

	LogLevel string
	LogFile  string

	JWTSecret string
	JWTExpiry time.Duration

	RedisURL string

	// FeedIncludeSelf controls whether the from-followed feed scope also
	// shows the viewer's own posts. Off by default: the point of following
	// people is to see their garbage, not your own.
	FeedIncludeSelf bool
}

// Load reads configuration from environment variables. JWT_SECRET is the
// only hard requirement outside development.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8787"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", "server.log"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTExpiry:       getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		FeedIncludeSelf: getEnvBool("FEED_INCLUDE_SELF", false),
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment != "development" {
			return nil, fmt.Errorf("JWT_SECRET environment variable not set")
		}
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}


func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
