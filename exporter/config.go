package exporter

import (
	"time"

	"github.com/c360/streamkit/errors"
)

// Config holds configuration for the diagnostics exporter
type Config struct {
	// Subject is the NATS subject snapshots are published to.
	Subject string `json:"subject"`

	// Interval is how often a snapshot is captured and published.
	Interval time.Duration `json:"interval"`

	// PublishTimeout bounds a single capture-and-publish cycle.
	PublishTimeout time.Duration `json:"publish_timeout"`
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Subject == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "subject is required")
	}
	if c.Interval <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "interval must be positive")
	}
	if c.PublishTimeout <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "publish_timeout must be positive")
	}
	return nil
}

// DefaultConfig returns default configuration for the exporter
func DefaultConfig() Config {
	return Config{
		Subject:        "diagnostics.graph",
		Interval:       time.Second,
		PublishTimeout: 5 * time.Second,
	}
}
