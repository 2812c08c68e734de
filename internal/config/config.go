// Package config loads application settings from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all non-database application settings
type Config struct {
	Port       string
	ObjectName string // the astronomical object being tracked, e.g. "3I/ATLAS"

	// External API credentials (optional; adapters degrade to empty results)
	NewsAPIKey string

	// LLM settings
	OpenAIKey   string
	OpenAIModel string

	// Auth
	AdminPassword string
	JWTSecret     string

	// Scheduling
	IngestInterval  time.Duration
	RefreshInterval time.Duration
	AnalysisHour    int // local hour of day for the deep analysis run
	WarmStartDelay  time.Duration
}

// Load reads configuration from the environment, applying defaults
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		ObjectName:      getEnv("OBJECT_NAME", "3I/ATLAS"),
		NewsAPIKey:      getEnv("NEWSAPI_KEY", ""),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		IngestInterval:  getEnvDuration("INGEST_INTERVAL", 4*time.Hour),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 2*time.Hour),
		AnalysisHour:    getEnvInt("ANALYSIS_HOUR", 3),
		WarmStartDelay:  getEnvDuration("WARM_START_DELAY", 10*time.Second),
	}
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
