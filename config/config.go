// Package config provides configuration loading and management for the
// generation service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Routing  RoutingConfig  `yaml:"routing"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address (default ":8080")
	Addr string `yaml:"addr"`
	// MaxConcurrentPerUser caps running generations per user
	MaxConcurrentPerUser int `yaml:"max_concurrent_per_user"`
	// MaxConcurrentGlobal caps running generations across all users
	MaxConcurrentGlobal int `yaml:"max_concurrent_global"`
}

// PipelineConfig configures the generation loop.
type PipelineConfig struct {
	// MaxIterations bounds the refinement loop
	MaxIterations int `yaml:"max_iterations"`
	// ScoreThreshold is the composite score a plan must reach to
	// converge early (0-1)
	ScoreThreshold float64 `yaml:"score_threshold"`
}

// JobsConfig configures the in-memory job store.
type JobsConfig struct {
	// MaxSessions bounds the number of retained job records
	MaxSessions int `yaml:"max_sessions"`
	// TTL is how long finished jobs remain queryable
	TTL time.Duration `yaml:"ttl"`
}

// RoutingConfig points at the optional model routing table.
type RoutingConfig struct {
	// File is a YAML routing table overriding the built-in model
	// routes (empty = use defaults)
	File string `yaml:"file"`
	// Watch enables hot-reload of the routing file
	Watch bool `yaml:"watch"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                 ":8080",
			MaxConcurrentPerUser: 2,
			MaxConcurrentGlobal:  16,
		},
		Pipeline: PipelineConfig{
			MaxIterations:  3,
			ScoreThreshold: 0.70,
		},
		Jobs: JobsConfig{
			MaxSessions: 1000,
			TTL:         30 * time.Minute,
		},
		Routing: RoutingConfig{
			File:  "",
			Watch: false,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxConcurrentPerUser < 1 {
		return fmt.Errorf("server.max_concurrent_per_user must be at least 1")
	}
	if c.Server.MaxConcurrentGlobal < c.Server.MaxConcurrentPerUser {
		return fmt.Errorf("server.max_concurrent_global must be at least the per-user cap")
	}
	if c.Pipeline.MaxIterations < 1 {
		return fmt.Errorf("pipeline.max_iterations must be at least 1")
	}
	if c.Pipeline.ScoreThreshold <= 0 || c.Pipeline.ScoreThreshold > 1 {
		return fmt.Errorf("pipeline.score_threshold must be in (0, 1]")
	}
	if c.Jobs.MaxSessions < 1 {
		return fmt.Errorf("jobs.max_sessions must be at least 1")
	}
	if c.Jobs.TTL <= 0 {
		return fmt.Errorf("jobs.ttl must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. ${VAR} references
// in the file are expanded from the environment before parsing.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.Expand(string(data), os.Getenv)

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence
// for non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.MaxConcurrentPerUser != 0 {
		c.Server.MaxConcurrentPerUser = other.Server.MaxConcurrentPerUser
	}
	if other.Server.MaxConcurrentGlobal != 0 {
		c.Server.MaxConcurrentGlobal = other.Server.MaxConcurrentGlobal
	}

	// Pipeline
	if other.Pipeline.MaxIterations != 0 {
		c.Pipeline.MaxIterations = other.Pipeline.MaxIterations
	}
	if other.Pipeline.ScoreThreshold != 0 {
		c.Pipeline.ScoreThreshold = other.Pipeline.ScoreThreshold
	}

	// Jobs
	if other.Jobs.MaxSessions != 0 {
		c.Jobs.MaxSessions = other.Jobs.MaxSessions
	}
	if other.Jobs.TTL != 0 {
		c.Jobs.TTL = other.Jobs.TTL
	}

	// Routing
	if other.Routing.File != "" {
		c.Routing.File = other.Routing.File
	}
	if other.Routing.Watch {
		c.Routing.Watch = true
	}
}
