package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromDefaultsWhenFilesMissing(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BOSS_PORT", "")
	dir := t.TempDir()

	cfg, err := LoadFrom(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Server.Port)
	}
	if cfg.Boss.OwnerTimeout != 30*time.Second {
		t.Errorf("expected default owner timeout 30s, got %v", cfg.Boss.OwnerTimeout)
	}
	if len(cfg.Server.CORSOrigins) != 4 {
		t.Errorf("expected 4 default CORS origins, got %v", cfg.Server.CORSOrigins)
	}
	if len(cfg.Owners) != 0 {
		t.Errorf("expected no owners by default, got %d", len(cfg.Owners))
	}
}

func TestLoadFromYAMLOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BOSS_PORT", "")
	t.Setenv("BOSS_OWNER_TIMEOUT", "")
	dir := t.TempDir()
	path := writeFile(t, dir, "boss.yaml", `
server:
  port: "9090"
boss:
  owner_timeout: 5s
  max_parallel: 2
owners:
  - id: qa-owner
    kind: rules
    coverage: [tests, risk]
    confidence: 0.6
    criteria_checks:
      - keyword: perf
        gap: Missing performance budget
`)

	cfg, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Boss.OwnerTimeout != 5*time.Second {
		t.Errorf("expected owner timeout 5s, got %v", cfg.Boss.OwnerTimeout)
	}
	if cfg.Boss.MaxParallel != 2 {
		t.Errorf("expected max_parallel 2, got %d", cfg.Boss.MaxParallel)
	}
	if len(cfg.Owners) != 1 || cfg.Owners[0].ID != "qa-owner" {
		t.Fatalf("expected one owner qa-owner, got %+v", cfg.Owners)
	}
	if got := cfg.Owners[0].CriteriaChecks; len(got) != 1 || got[0].Keyword != "perf" {
		t.Errorf("unexpected criteria checks: %+v", got)
	}
	// untouched sections keep defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "boss.yaml", "server:\n  port: \"9090\"\n")
	t.Setenv("PORT", "")
	t.Setenv("BOSS_PORT", "7070")
	t.Setenv("BOSS_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BOSS_OWNER_TIMEOUT", "2s")

	cfg, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected env port 7070, got %q", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.Server.CORSOrigins)
	}
	if cfg.Boss.OwnerTimeout != 2*time.Second {
		t.Errorf("expected owner timeout 2s, got %v", cfg.Boss.OwnerTimeout)
	}
}

func TestLoadFromDotEnvFile(t *testing.T) {
	const key = "BOSS_MAX_PARALLEL"
	if _, ok := os.LookupEnv(key); ok {
		t.Skipf("%s already set in environment", key)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", key+"=7\n")

	cfg, err := LoadFrom("", envPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Boss.MaxParallel != 7 {
		t.Errorf("expected max_parallel from .env = 7, got %d", cfg.Boss.MaxParallel)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "boss.yaml", "server: [unclosed")

	if _, err := LoadFrom(path, ""); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults ok", func(*Config) {}, ""},
		{"empty port", func(c *Config) { c.Server.Port = "" }, "server.port"},
		{"zero owner timeout", func(c *Config) { c.Boss.OwnerTimeout = 0 }, "owner_timeout"},
		{"negative parallel", func(c *Config) { c.Boss.MaxParallel = -1 }, "max_parallel"},
		{"breaker failures", func(c *Config) { c.Breaker.MaxFailures = 0 }, "max_failures"},
		{"owner without id", func(c *Config) { c.Owners = []OwnerSpec{{Kind: "rules"}} }, "owners[0].id"},
		{"duplicate owner", func(c *Config) {
			c.Owners = []OwnerSpec{{ID: "a"}, {ID: "a"}}
		}, "duplicated"},
		{"confidence out of range", func(c *Config) {
			c.Owners = []OwnerSpec{{ID: "a", Confidence: 1.5}}
		}, "confidence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := validate(&cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
