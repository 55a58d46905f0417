// Package config resolves and validates service configuration from the
// environment.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds service configuration.
type Config struct {
	Port    string
	DataDir string

	ProviderBaseURL  string
	ProviderAPIKey   string
	ProviderLogin    string
	ProviderPassword string
	ProviderTimeout  time.Duration

	OnPageEnabled bool
	OnPageTimeout time.Duration

	AuditCacheSize int
	AuditCacheTTL  time.Duration

	RateLimitPerSecond float64
	RateLimitBurst     float64

	UserAgent string
}

// Default returns conservative defaults; provider credentials must come
// from the environment.
func Default() *Config {
	return &Config{
		Port:               "8082",
		DataDir:            "data",
		ProviderBaseURL:    "https://api.dataforseo.com",
		ProviderTimeout:    15 * time.Second,
		OnPageEnabled:      true,
		OnPageTimeout:      10 * time.Second,
		AuditCacheSize:     1000,
		AuditCacheTTL:      30 * time.Minute,
		RateLimitPerSecond: 2,
		RateLimitBurst:     5,
		UserAgent:          "ToolScout/1.0",
	}
}

// LoadEnv loads a .env file when present; real environment variables win.
func LoadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		// If .env.development doesn't exist, try regular .env
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

// FromEnv builds a Config from defaults overridden by environment variables.
func FromEnv() *Config {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SEO_PROVIDER_BASE_URL"); v != "" {
		cfg.ProviderBaseURL = v
	}
	cfg.ProviderAPIKey = os.Getenv("SEO_PROVIDER_API_KEY")
	cfg.ProviderLogin = os.Getenv("SEO_PROVIDER_LOGIN")
	cfg.ProviderPassword = os.Getenv("SEO_PROVIDER_PASSWORD")

	if v := os.Getenv("SEO_PROVIDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProviderTimeout = d
		}
	}
	if v := os.Getenv("ONPAGE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.OnPageEnabled = enabled
		}
	}
	if v := os.Getenv("AUDIT_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AuditCacheSize = n
		}
	}
	if v := os.Getenv("AUDIT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AuditCacheTTL = d
		}
	}

	return cfg
}

// HasProviderCredentials reports whether the SEO provider can be called.
func (c *Config) HasProviderCredentials() bool {
	return c.ProviderAPIKey != "" || (c.ProviderLogin != "" && c.ProviderPassword != "")
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.ProviderBaseURL == "" {
		return fmt.Errorf("provider base URL cannot be empty")
	}
	parsedURL, err := url.Parse(c.ProviderBaseURL)
	if err != nil {
		return fmt.Errorf("invalid provider base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("provider base URL must include a host")
	}

	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}
	if c.OnPageTimeout <= 0 {
		return fmt.Errorf("onpage timeout must be positive")
	}
	if c.AuditCacheSize <= 0 {
		return fmt.Errorf("audit cache size must be positive")
	}
	if c.AuditCacheTTL <= 0 {
		return fmt.Errorf("audit cache TTL must be positive")
	}
	if c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
