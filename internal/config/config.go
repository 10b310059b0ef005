package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:8080/api"
	DefaultIdentityURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultAPITimeout  = 30 * time.Second

	StoreKeyring = "keyring"
	StoreFile    = "file"
)

// Config holds all configuration for the CLI
type Config struct {
	API      APIConfig
	Identity IdentityConfig
	Store    StoreConfig
	Logging  LoggingConfig
}

// APIConfig holds the Culinary Companion backend configuration
type APIConfig struct {
	URL     string
	Timeout time.Duration
}

// IdentityConfig holds the identity provider configuration
type IdentityConfig struct {
	URL    string
	APIKey string
}

// StoreConfig selects where credentials are persisted
type StoreConfig struct {
	Backend string // keyring, file
	Path    string // only used by the file backend
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := strings.TrimRight(getEnv("CULINARY_API_URL", DefaultAPIURL), "/")

	timeout := DefaultAPITimeout
	if raw := os.Getenv("CULINARY_API_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CULINARY_API_TIMEOUT %q: %w", raw, err)
		}
		timeout = d
	}

	backend := strings.ToLower(getEnv("CULINARY_TOKEN_STORE", StoreKeyring))
	if backend != StoreKeyring && backend != StoreFile {
		return nil, fmt.Errorf("invalid CULINARY_TOKEN_STORE %q, must be one of: keyring, file", backend)
	}

	return &Config{
		API: APIConfig{
			URL:     apiURL,
			Timeout: timeout,
		},
		Identity: IdentityConfig{
			URL:    strings.TrimRight(getEnv("CULINARY_IDENTITY_URL", DefaultIdentityURL), "/"),
			APIKey: os.Getenv("CULINARY_IDENTITY_API_KEY"),
		},
		Store: StoreConfig{
			Backend: backend,
			Path:    os.Getenv("CULINARY_TOKEN_FILE"),
		},
		Logging: LoggingConfig{
			// The CLI stays quiet unless asked
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
