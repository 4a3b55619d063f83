package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	ConfigFile = filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("Expected base URL %s, got %s", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Timeout())
	}
	if cfg.Production {
		t.Error("Expected production disabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	ConfigFile = filepath.Join(dir, "config.yaml")

	content := "base_url: http://10.0.0.5:5000/api\ntimeout_seconds: 10\n"
	if err := os.WriteFile(ConfigFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BaseURL != "http://10.0.0.5:5000/api" {
		t.Errorf("Expected file base URL, got %s", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 10 {
		t.Errorf("Expected timeout 10, got %d", cfg.TimeoutSeconds)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	ConfigFile = filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("TGBOARD_API_URL", "http://override:5000/api")
	t.Setenv("TGBOARD_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BaseURL != "http://override:5000/api" {
		t.Errorf("Expected env base URL, got %s", cfg.BaseURL)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Timeout())
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	ConfigFile = filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("TGBOARD_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid timeout")
	}
}

func TestEffectiveBaseURL(t *testing.T) {
	cfg := &Config{
		BaseURL:       "http://localhost:5000/api",
		ProductionURL: "https://prod.example.com/api",
	}

	if got := cfg.EffectiveBaseURL(); got != "http://localhost:5000/api" {
		t.Errorf("Expected local URL, got %s", got)
	}

	cfg.Production = true
	if got := cfg.EffectiveBaseURL(); got != "https://prod.example.com/api" {
		t.Errorf("Expected production URL, got %s", got)
	}
}
