// Package config loads and validates configuration for the diagnostics
// tools. Configuration is layered: compiled-in defaults, then JSON files,
// then environment overrides, each layer only touching the fields it
// names.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/c360/streamkit/errors"
)

// Duration wraps time.Duration so JSON configs can use strings like "5s"
// as well as nanosecond numbers.
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
}

// MarshalJSON renders the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the duration as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// NATSConfig holds connection settings for the NATS server
type NATSConfig struct {
	URL           string   `json:"url"`
	Name          string   `json:"name"`
	MaxReconnects int      `json:"max_reconnects"`
	ReconnectWait Duration `json:"reconnect_wait"`
	Username      string   `json:"username,omitempty"`
	Password      string   `json:"password,omitempty"`
	Token         string   `json:"token,omitempty"`
}

// ExporterConfig holds snapshot capture and publish settings
type ExporterConfig struct {
	Subject        string   `json:"subject"`
	Interval       Duration `json:"interval"`
	PublishTimeout Duration `json:"publish_timeout"`
}

// MetricsConfig holds settings for the Prometheus metrics endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Path    string `json:"path"`
}

// Config represents the complete tool configuration
type Config struct {
	NATS     NATSConfig     `json:"nats"`
	Exporter ExporterConfig `json:"exporter"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.NATS.URL == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "nats.url is required")
	}
	if c.Exporter.Subject == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "exporter.subject is required")
	}
	if c.Exporter.Interval <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "exporter.interval must be positive")
	}
	if c.Exporter.PublishTimeout <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "exporter.publish_timeout must be positive")
	}
	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				fmt.Sprintf("metrics.port %d out of range", c.Metrics.Port))
		}
	}
	return nil
}

// Default returns the compiled-in default configuration
func Default() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:           "nats://localhost:4222",
			Name:          "streamkit-diag",
			MaxReconnects: -1,
			ReconnectWait: Duration(2 * time.Second),
		},
		Exporter: ExporterConfig{
			Subject:        "diagnostics.graph",
			Interval:       Duration(time.Second),
			PublishTimeout: Duration(5 * time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// Loader loads layered configuration
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "STREAMKIT",
		validation: true,
	}
}

// AddLayer adds a configuration file layer
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables configuration validation
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load merges all configuration layers over the defaults, then applies
// environment overrides
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	for _, path := range l.layers {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", "read "+path)
		}
		// Unmarshalling onto the existing struct only overrides fields
		// present in the file.
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "Load", "parse "+path)
		}
	}

	l.applyEnvOverrides(cfg)

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variables on top of file layers
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(l.envPrefix + "_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv(l.envPrefix + "_NATS_TOKEN"); v != "" {
		cfg.NATS.Token = v
	}
	if v := os.Getenv(l.envPrefix + "_SUBJECT"); v != "" {
		cfg.Exporter.Subject = v
	}
	if v := os.Getenv(l.envPrefix + "_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Exporter.Interval = Duration(parsed)
		}
	}
	if v := os.Getenv(l.envPrefix + "_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
