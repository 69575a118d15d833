// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// RelayConfig holds configuration for the generation relay server.
type RelayConfig struct {
	Port             string   `env:"PORT"                    envDefault:"3000"`
	APIKey           string   `env:"CLAUDE_API_KEY"`
	Model            string   `env:"RELAY_MODEL"             envDefault:"claude-sonnet-4-20250514"`
	MaxTokens        int      `env:"RELAY_MAX_TOKENS"        envDefault:"2048"`
	UpstreamURL      string   `env:"RELAY_UPSTREAM_URL"      envDefault:"https://api.anthropic.com/v1/messages"`
	AnthropicVersion string   `env:"RELAY_ANTHROPIC_VERSION" envDefault:"2023-06-01"`
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"    envDefault:"*" envSeparator:","`
	MaxBodyBytes     int64    `env:"RELAY_MAX_BODY_BYTES"    envDefault:"1048576"`
	LogLevel         string   `env:"LOG_LEVEL"               envDefault:"info"`
}

// ClientConfig holds configuration for the visitor-side state manager host.
type ClientConfig struct {
	ProxyEndpoint  string        `env:"RETRONET_PROXY_ENDPOINT"  envDefault:"http://localhost:3000/api/generate"`
	DBPath         string        `env:"RETRONET_DB_PATH"         envDefault:"./data/retronet.db"`
	Partition      string        `env:"RETRONET_PARTITION"       envDefault:"default"`
	UpdateInterval time.Duration `env:"RETRONET_UPDATE_INTERVAL" envDefault:"5s"`
	LogLevel       string        `env:"LOG_LEVEL"                envDefault:"info"`
}

// LoadRelay reads relay configuration from environment variables.
func LoadRelay() (*RelayConfig, error) {
	var cfg RelayConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that all required configuration fields are set. The API
// key is deliberately not required here; the relay reports it per request.
func (c *RelayConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("RELAY_MODEL cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("RELAY_MAX_TOKENS must be > 0")
	}
	if c.UpstreamURL == "" {
		return fmt.Errorf("RELAY_UPSTREAM_URL cannot be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("RELAY_MAX_BODY_BYTES must be > 0")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	return nil
}

// HasAPIKey reports whether the upstream credential is configured.
func (c *RelayConfig) HasAPIKey() bool {
	return c.APIKey != ""
}

// LoadClient reads client host configuration from environment variables.
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *ClientConfig) Validate() error {
	if c.ProxyEndpoint == "" {
		return fmt.Errorf("RETRONET_PROXY_ENDPOINT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("RETRONET_DB_PATH cannot be empty")
	}
	if c.Partition == "" {
		return fmt.Errorf("RETRONET_PARTITION cannot be empty")
	}
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("RETRONET_UPDATE_INTERVAL must be > 0")
	}
	return nil
}

// ParseLogLevel maps a LOG_LEVEL string to a slog level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
