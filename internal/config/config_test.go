package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DatabasePath != "iitconnect.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %v", cfg.TokenDuration)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.EngineConfig.TemplateVersion != "v1" {
		t.Errorf("TemplateVersion = %q", cfg.EngineConfig.TemplateVersion)
	}
	if cfg.OllamaConfig.BaseURL != "http://localhost:11434" {
		t.Errorf("BaseURL = %q", cfg.OllamaConfig.BaseURL)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CONNECT_ADDR", ":9999")
	t.Setenv("CONNECT_MODEL", "mistral")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.EngineConfig.Model != "mistral" {
		t.Errorf("Model = %q", cfg.EngineConfig.Model)
	}
}

func TestLoadConfigYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
addr: ":7070"
jwt_secret: "file-secret"
workers: 8
engine:
  model: "phi3"
  timeout: 90s
ollama:
  retries: 5
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.EngineConfig.Model != "phi3" {
		t.Errorf("Model = %q", cfg.EngineConfig.Model)
	}
	if cfg.EngineConfig.Timeout != 90*time.Second {
		t.Errorf("engine timeout = %v", cfg.EngineConfig.Timeout)
	}
	if cfg.OllamaConfig.Retries != 5 {
		t.Errorf("Retries = %d", cfg.OllamaConfig.Retries)
	}
	// untouched keys keep their defaults
	if cfg.DatabasePath != "iitconnect.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
