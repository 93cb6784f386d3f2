// Package config provides configuration management for the memview backend.
// Configuration is layered: built-in defaults, then an optional YAML file,
// then environment variable overrides, validated as a whole at the end.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment is the deployment environment
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the root configuration for the service
type Config struct {
	Environment Environment   `yaml:"environment" validate:"required,oneof=development production"`
	Server      ServerConfig  `yaml:"server"`
	Backend     BackendConfig `yaml:"backend"`
	Search      SearchConfig  `yaml:"search"`
	View        ViewConfig    `yaml:"view"`
	Tracing     TracingConfig `yaml:"tracing"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

// BackendConfig configures the memory-store REST collaborator
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// SearchConfig tunes the semantic-search dispatch
type SearchConfig struct {
	MinSimilarity float64 `yaml:"min_similarity" validate:"gte=0,lte=1"`
	Limit         int     `yaml:"limit" validate:"gt=0,lte=100"`
}

// ViewConfig holds the default view settings
type ViewConfig struct {
	SizingMode string `yaml:"sizing_mode" validate:"oneof=uniform importance recency frequency"`
}

// TracingConfig configures the OTLP trace exporter
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the built-in configuration for local development
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Search: SearchConfig{
			MinSimilarity: 0.3,
			Limit:         20,
		},
		View: ViewConfig{
			SizingMode: "uniform",
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}

// Load builds the effective configuration. path may be empty, in which case
// only defaults and environment overrides apply; a named file that does not
// exist is an error, so typos fail fast instead of silently using defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides layers MEMVIEW_* environment variables on top
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEMVIEW_ENVIRONMENT"); v != "" {
		cfg.Environment = Environment(v)
	}
	if v := os.Getenv("MEMVIEW_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MEMVIEW_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MEMVIEW_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("MEMVIEW_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}
	if v := os.Getenv("MEMVIEW_SEARCH_MIN_SIMILARITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Search.MinSimilarity = f
		}
	}
	if v := os.Getenv("MEMVIEW_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.Limit = n
		}
	}
	if v := os.Getenv("MEMVIEW_SIZING_MODE"); v != "" {
		cfg.View.SizingMode = v
	}
	if v := os.Getenv("MEMVIEW_TRACING_ENABLED"); v != "" {
		cfg.Tracing.Enabled = v == "true"
	}
	if v := os.Getenv("MEMVIEW_TRACING_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
	}
}
