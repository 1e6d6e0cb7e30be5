// Package config provides centralized configuration for both delivery forms
// of the validator. Settings come from environment variables (optionally via
// a .env file loaded by the entrypoints) and are validated on startup to
// fail fast on misconfiguration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Template TemplateConfig
	Batch    BatchConfig
	Logging  LoggingConfig
}

// ServerConfig holds settings for the local web adapter.
type ServerConfig struct {
	// Host is the interface to bind to. The tool is offline by design,
	// so the default binds loopback only.
	Host string `env:"SERVER_HOST" envDefault:"127.0.0.1"`

	// Port is the port to listen on.
	Port int `env:"SERVER_PORT" envDefault:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// MaxUploadSize is the largest CSV accepted over HTTP, in bytes.
	MaxUploadSize int64 `env:"SERVER_MAX_UPLOAD_SIZE" envDefault:"26214400"`

	// RequestsPerMinute is the per-IP rate limit.
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"100"`
}

// TemplateConfig selects the active validation template.
type TemplateConfig struct {
	// Path points at an external template JSON file. Empty means the
	// embedded default. An external template replaces the default
	// wholesale; there is no merging.
	Path string `env:"TEMPLATE_PATH"`
}

// BatchConfig holds settings for the folder-scanning adapter.
type BatchConfig struct {
	// InputDir is scanned for *.csv files.
	InputDir string `env:"BATCH_INPUT_DIR" envDefault:"input_source"`

	// OutputDir receives the JSON, text and HTML reports.
	OutputDir string `env:"BATCH_OUTPUT_DIR" envDefault:"output"`

	// Workers is how many files are validated in parallel. Runs are
	// independent and stateless, so parallelism needs no coordination.
	Workers int `env:"BATCH_WORKERS" envDefault:"4"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json.
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from environment variables, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, "SERVER_MAX_UPLOAD_SIZE must be positive")
	}
	if c.Server.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	if c.Batch.InputDir == "" {
		errs = append(errs, "BATCH_INPUT_DIR must not be empty")
	}
	if c.Batch.OutputDir == "" {
		errs = append(errs, "BATCH_OUTPUT_DIR must not be empty")
	}
	if c.Batch.Workers <= 0 {
		errs = append(errs, "BATCH_WORKERS must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
