package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
	LogLevel     string
	Port         string
}

func Load() (Config, error) {
	// A local .env is a development convenience; absence is not an error.
	godotenv.Load()

	config := Config{
		DatabasePath: envOrDefault("DATABASE_PATH", "./data/habit-pulse.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		Port:         envOrDefault("PORT", "8080"),
	}

	ttl, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "72h"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing TOKEN_TTL: %w", err)
	}
	config.TokenTTL = ttl

	if config.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
