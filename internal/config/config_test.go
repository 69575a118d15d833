package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadRelayDefaults(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "")

	cfg, err := LoadRelay()
	if err != nil {
		t.Fatalf("LoadRelay failed: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.Model != "claude-sonnet-4-20250514" || cfg.MaxTokens != 2048 {
		t.Errorf("unexpected model defaults: %q %d", cfg.Model, cfg.MaxTokens)
	}
	if cfg.HasAPIKey() {
		t.Error("expected no API key")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadRelayFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CLAUDE_API_KEY", "sk-test")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadRelay()
	if err != nil {
		t.Fatalf("LoadRelay failed: %v", err)
	}
	if cfg.Port != "9090" || !cfg.HasAPIKey() {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected two origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadRelayRejectsBadMaxTokens(t *testing.T) {
	t.Setenv("RELAY_MAX_TOKENS", "0")
	if _, err := LoadRelay(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if cfg.UpdateInterval != 5*time.Second {
		t.Errorf("expected 5s interval, got %v", cfg.UpdateInterval)
	}
	if cfg.ProxyEndpoint != "http://localhost:3000/api/generate" {
		t.Errorf("unexpected endpoint %q", cfg.ProxyEndpoint)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
