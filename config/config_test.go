package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Pipeline.MaxIterations != 3 {
		t.Errorf("expected 3 max iterations, got %d", cfg.Pipeline.MaxIterations)
	}
	if cfg.Pipeline.ScoreThreshold != 0.70 {
		t.Errorf("expected threshold 0.70, got %f", cfg.Pipeline.ScoreThreshold)
	}
	if cfg.Jobs.MaxSessions != 1000 {
		t.Errorf("expected 1000 max sessions, got %d", cfg.Jobs.MaxSessions)
	}
	if cfg.Jobs.TTL != 30*time.Minute {
		t.Errorf("expected 30m job TTL, got %v", cfg.Jobs.TTL)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing addr",
			modify:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
		},
		{
			name:    "zero per-user cap",
			modify:  func(c *Config) { c.Server.MaxConcurrentPerUser = 0 },
			wantErr: true,
		},
		{
			name: "global cap below per-user cap",
			modify: func(c *Config) {
				c.Server.MaxConcurrentPerUser = 8
				c.Server.MaxConcurrentGlobal = 4
			},
			wantErr: true,
		},
		{
			name:    "zero iterations",
			modify:  func(c *Config) { c.Pipeline.MaxIterations = 0 },
			wantErr: true,
		},
		{
			name:    "threshold too high",
			modify:  func(c *Config) { c.Pipeline.ScoreThreshold = 1.1 },
			wantErr: true,
		},
		{
			name:    "threshold zero",
			modify:  func(c *Config) { c.Pipeline.ScoreThreshold = 0 },
			wantErr: true,
		},
		{
			name:    "negative TTL",
			modify:  func(c *Config) { c.Jobs.TTL = -time.Minute },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  addr: ":9090"
  max_concurrent_per_user: 4
pipeline:
  max_iterations: 5
  score_threshold: 0.8
jobs:
  max_sessions: 50
  ttl: 10m
routing:
  file: "/etc/archgen/routing.yaml"
  watch: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", cfg.Server.Addr)
	}
	if cfg.Server.MaxConcurrentPerUser != 4 {
		t.Errorf("expected per-user cap 4, got %d", cfg.Server.MaxConcurrentPerUser)
	}
	// Unset fields keep their defaults.
	if cfg.Server.MaxConcurrentGlobal != 16 {
		t.Errorf("expected default global cap 16, got %d", cfg.Server.MaxConcurrentGlobal)
	}
	if cfg.Pipeline.MaxIterations != 5 {
		t.Errorf("expected 5 max iterations, got %d", cfg.Pipeline.MaxIterations)
	}
	if cfg.Pipeline.ScoreThreshold != 0.8 {
		t.Errorf("expected threshold 0.8, got %f", cfg.Pipeline.ScoreThreshold)
	}
	if cfg.Jobs.TTL != 10*time.Minute {
		t.Errorf("expected TTL 10m, got %v", cfg.Jobs.TTL)
	}
	if cfg.Routing.File != "/etc/archgen/routing.yaml" {
		t.Errorf("expected routing file path, got %s", cfg.Routing.File)
	}
	if !cfg.Routing.Watch {
		t.Error("expected routing watch enabled")
	}
}

func TestLoadFromFileExpandsEnv(t *testing.T) {
	t.Setenv("TEST_ARCHGEN_ADDR", ":7070")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := "server:\n  addr: \"${TEST_ARCHGEN_ADDR}\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("expected env-expanded addr :7070, got %s", cfg.Server.Addr)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Server: ServerConfig{
			Addr: ":9999",
		},
		Pipeline: PipelineConfig{
			ScoreThreshold: 0.9,
		},
	}

	base.Merge(override)

	if base.Server.Addr != ":9999" {
		t.Errorf("expected addr :9999, got %s", base.Server.Addr)
	}
	// Caps should remain from base since override didn't set them
	if base.Server.MaxConcurrentPerUser != 2 {
		t.Errorf("expected per-user cap to remain default, got %d", base.Server.MaxConcurrentPerUser)
	}
	if base.Pipeline.ScoreThreshold != 0.9 {
		t.Errorf("expected threshold 0.9, got %f", base.Pipeline.ScoreThreshold)
	}
	if base.Pipeline.MaxIterations != 3 {
		t.Errorf("expected max iterations to remain default, got %d", base.Pipeline.MaxIterations)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":6060"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Server.Addr != ":6060" {
		t.Errorf("expected addr :6060, got %s", loaded.Server.Addr)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ARCHGEN_LOG_LEVEL", "debug")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if env.GeminiAPIKey != "test-key" {
		t.Errorf("expected GeminiAPIKey test-key, got %s", env.GeminiAPIKey)
	}
	if env.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", env.LogLevel)
	}
}

func TestLoadEnvRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")

	if _, err := LoadEnv(); err == nil {
		t.Error("expected error when GEMINI_API_KEY is missing")
	}
}
