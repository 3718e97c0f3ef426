// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all server configuration.
type Config struct {
	Port         string
	FrontendURL  string
	DBPath       string
	BackendURL   string
	ProxyTimeout time.Duration
}

// Load reads server configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		FrontendURL:  getEnv("FRONTEND_URL", ""),
		DBPath:       getEnv("DB_PATH", "./data/woodshop.db"),
		BackendURL:   getEnv("BACKEND_URL", "http://localhost:5000"),
		ProxyTimeout: getEnvDuration("PROXY_TIMEOUT", 180*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL cannot be empty")
	}
	if c.ProxyTimeout <= 0 {
		return fmt.Errorf("PROXY_TIMEOUT must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// ClientConfig holds configuration for the chat client.
type ClientConfig struct {
	APIURL     string
	DataDir    string
	AskTimeout time.Duration
}

// LoadClient reads chat client configuration from environment variables.
// The data dir defaults to a "woodshop" directory under the user config dir.
func LoadClient() (*ClientConfig, error) {
	dataDir := getEnv("WOODSHOP_DATA_DIR", "")
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user config dir: %w", err)
		}
		dataDir = filepath.Join(base, "woodshop")
	}

	cfg := &ClientConfig{
		APIURL:     getEnv("WOODSHOP_API_URL", "http://localhost:8080"),
		DataDir:    dataDir,
		AskTimeout: getEnvDuration("ASK_TIMEOUT", 300*time.Second),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("invalid configuration: WOODSHOP_API_URL cannot be empty")
	}
	if cfg.AskTimeout <= 0 {
		return nil, fmt.Errorf("invalid configuration: ASK_TIMEOUT must be > 0")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare integers are treated as seconds.
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
