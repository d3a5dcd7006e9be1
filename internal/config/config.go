package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL     string
	Port            string
	LogLevel        string
	QueryTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Hint suggestions. Disabled when GCPProjectID is empty.
	GCPProjectID        string
	GCPRegion           string
	GeminiModel         string
	HintBreakerFailures int
	HintBreakerReset    time.Duration
}

func Load() Config {
	return Config{
		DatabaseURL:         getEnvRequired("DATABASE_URL"),
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		QueryTimeout:        getEnvDuration("QUERY_TIMEOUT", 5*time.Second),
		ShutdownTimeout:     getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		GCPProjectID:        getEnv("GCP_PROJECT_ID", ""),
		GCPRegion:           getEnv("GCP_REGION", "europe-west1"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		HintBreakerFailures: getEnvInt("HINT_BREAKER_MAX_FAILURES", 3),
		HintBreakerReset:    getEnvDuration("HINT_BREAKER_RESET", 30*time.Second),
	}
}

// HintsEnabled reports whether a Gemini project is configured.
func (c Config) HintsEnabled() bool {
	return c.GCPProjectID != ""
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic("required environment variable " + key + " is not set")
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "error", err)
			return fallback
		}
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "error", err)
			return fallback
		}
		return d
	}
	return fallback
}
