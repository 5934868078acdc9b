package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string

	// EncryptionKey is the long-lived secret the token cipher key is derived from.
	EncryptionKey string

	// GitHubAPIBaseURL and VercelAPIBaseURL override the upstream API hosts,
	// mainly for local development against stubs. Empty means the real hosts.
	GitHubAPIBaseURL string
	VercelAPIBaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		HTTPListenAddr:   getEnv("HTTP_LISTEN_ADDR", ":8090"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ServiceName:      getEnv("SERVICE_NAME", "platform-api"),
		EncryptionKey:    getEnv("ENCRYPTION_KEY", ""),
		GitHubAPIBaseURL: getEnv("GITHUB_API_BASE_URL", ""),
		VercelAPIBaseURL: getEnv("VERCEL_API_BASE_URL", ""),
	}

	return cfg, nil
}

// Validate checks that the settings a component cannot run without are present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
