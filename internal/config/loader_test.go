package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	t.Setenv(envConfigPath, path)

	cfg, resolved, err := Load(nil, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("expected path %s, got %s", path, resolved)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Addr() != ":3001" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("config file must not be created, stat err: %v", err)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, _, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 4000\nfrontend_url: https://files.example.com\nwrite_timeout: 3s\nsend_buffer: 32\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "5000")
	t.Setenv("WIRERELAY_LOG_LEVEL", "debug")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 5000 {
		t.Fatalf("env PORT should win over file, got %d", cfg.Port)
	}
	if cfg.FrontendURL != "https://files.example.com" {
		t.Fatalf("unexpected frontend url %q", cfg.FrontendURL)
	}
	if cfg.WriteTimeout != 3*time.Second || cfg.SendBuffer != 32 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.LogLevel)
	}
}

func TestLoadLegacyFrontendEnv(t *testing.T) {
	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FRONTEND_URL", "https://app.example.org")

	cfg, _, err := Load(nil, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FrontendURL != "https://app.example.org" {
		t.Fatalf("unexpected frontend url %q", cfg.FrontendURL)
	}
}

func TestUpdateFromOverridesNonZero(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Port: 9000, LogLevel: "warn"})

	if cfg.Port != 9000 || cfg.LogLevel != "warn" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.FrontendURL != Default().FrontendURL {
		t.Fatalf("zero values must not override: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "any origin", mutate: func(c *Config) { c.FrontendURL = AllOrigins }},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "origin without scheme", mutate: func(c *Config) { c.FrontendURL = "localhost:5173" }, wantErr: true},
		{name: "ftp origin", mutate: func(c *Config) { c.FrontendURL = "ftp://example.com" }, wantErr: true},
		{name: "zero send buffer", mutate: func(c *Config) { c.SendBuffer = 0 }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimitPerMinute = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
