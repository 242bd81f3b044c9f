package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings backends
const (
	SettingsBackendFile     = "file"
	SettingsBackendPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	// Server
	Port int
	Host string

	// CORSAllowedOrigins lists the browser origins allowed to call the API
	CORSAllowedOrigins []string

	// Vault
	VaultDir string

	// Settings persistence
	SettingsBackend string
	SettingsPath    string
	DatabaseURL     string

	// OMDb
	OMDbBaseURL string
	OMDbAPIKey  string
	OMDbTimeout time.Duration

	// Environment
	Environment string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8080),
		Host:            getEnv("HOST", "127.0.0.1"),
		VaultDir:        getEnv("VAULT_DIR", "./vault"),
		SettingsBackend: getEnv("SETTINGS_BACKEND", SettingsBackendFile),
		SettingsPath:    getEnv("SETTINGS_PATH", "./data.json"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		OMDbBaseURL:     getEnv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		OMDbAPIKey:      getEnv("OMDB_API_KEY", ""),
		OMDbTimeout:     getEnvAsDuration("OMDB_TIMEOUT", 0),
		Environment:     getEnv("ENVIRONMENT", "development"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if c.VaultDir == "" {
		return fmt.Errorf("VAULT_DIR is required")
	}

	switch c.SettingsBackend {
	case SettingsBackendFile:
		if c.SettingsPath == "" {
			return fmt.Errorf("SETTINGS_PATH is required for the file settings backend")
		}
	case SettingsBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres settings backend")
		}
	default:
		return fmt.Errorf("SETTINGS_BACKEND must be %q or %q", SettingsBackendFile, SettingsBackendPostgres)
	}

	if c.OMDbBaseURL == "" {
		return fmt.Errorf("OMDB_BASE_URL is required")
	}

	if c.OMDbTimeout < 0 {
		return fmt.Errorf("OMDB_TIMEOUT must not be negative")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsDuration accepts Go durations ("10s") or whole seconds ("10")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping empty entries
func getEnvAsList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
