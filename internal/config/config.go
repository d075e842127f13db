// Package config provides configuration management for the sync engine.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Controller configuration
	ControllerPort        int
	ControllerDialTimeout time.Duration
	// PacingDelay is the minimum spacing between successive per-item
	// controller calls. Flow control for the unit's protocol stack,
	// not a correctness requirement.
	PacingDelay time.Duration

	// ScanCacheDir is where per-project DALI scan lists are persisted.
	ScanCacheDir string

	// CORS configuration
	CORSOrigin string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./project.db"),

		// Controller
		ControllerPort:        getEnvInt("CONTROLLER_PORT", 1234),
		ControllerDialTimeout: time.Duration(getEnvInt("CONTROLLER_DIAL_TIMEOUT_MS", 5000)) * time.Millisecond,
		PacingDelay:           time.Duration(getEnvInt("CONTROLLER_PACING_DELAY_MS", 300)) * time.Millisecond,

		// DALI scan cache
		ScanCacheDir: getEnv("SCAN_CACHE_DIR", "./data/dali-scans"),

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
