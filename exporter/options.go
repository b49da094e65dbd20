package exporter

import (
	"log/slog"

	"github.com/c360/streamkit/metric"
	"github.com/c360/streamkit/pkg/retry"
)

// Option configures exporter behavior using the functional options pattern.
type Option func(*exporterOptions)

// exporterOptions holds internal configuration for exporter instances.
// Stats are ALWAYS collected; Prometheus metrics are optional.
type exporterOptions struct {
	logger   *slog.Logger
	registry *metric.Registry
	retry    retry.Config
}

// WithLogger sets a structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(opts *exporterOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics export for exporter statistics.
// If registry is nil, this option is ignored.
func WithMetrics(registry *metric.Registry) Option {
	return func(opts *exporterOptions) {
		if registry != nil {
			opts.registry = registry
		}
	}
}

// WithRetry enables publish retries with the given backoff configuration.
// Only transient publish failures are retried. The default is a single
// attempt.
func WithRetry(cfg retry.Config) Option {
	return func(opts *exporterOptions) {
		opts.retry = cfg
	}
}

// applyOptions applies functional options to create final configuration.
func applyOptions(options []Option) *exporterOptions {
	opts := &exporterOptions{
		logger: slog.Default(),
		retry:  retry.Config{MaxAttempts: 1},
	}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
