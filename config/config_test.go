package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/streamkit/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultsValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "diagnostics.graph", cfg.Exporter.Subject)
	assert.Equal(t, time.Second, cfg.Exporter.Interval.Std())
}

func TestLoadFileOverridesOnlyNamedFields(t *testing.T) {
	path := writeConfig(t, `{
		"nats": {"url": "nats://broker:4222"},
		"exporter": {"interval": "250ms"}
	}`)

	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "nats://broker:4222", cfg.NATS.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Exporter.Interval.Std())
	// Untouched fields keep their defaults
	assert.Equal(t, "diagnostics.graph", cfg.Exporter.Subject)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLayersMergeInOrder(t *testing.T) {
	base := writeConfig(t, `{"exporter": {"subject": "diag.base", "interval": "2s"}}`)
	over := filepath.Join(t.TempDir(), "override.json")
	require.NoError(t, os.WriteFile(over, []byte(`{"exporter": {"subject": "diag.override"}}`), 0o600))

	l := NewLoader()
	l.AddLayer(base)
	l.AddLayer(over)

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "diag.override", cfg.Exporter.Subject)
	// Later layer left interval alone
	assert.Equal(t, 2*time.Second, cfg.Exporter.Interval.Std())
}

func TestDurationAcceptsStringAndNumber(t *testing.T) {
	path := writeConfig(t, `{"exporter": {"interval": 1500000000, "publish_timeout": "3s"}}`)

	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Exporter.Interval.Std())
	assert.Equal(t, 3*time.Second, cfg.Exporter.PublishTimeout.Std())
}

func TestInvalidDurationRejected(t *testing.T) {
	path := writeConfig(t, `{"exporter": {"interval": "soon"}}`)

	_, err := NewLoader().LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestEnvOverridesBeatFiles(t *testing.T) {
	path := writeConfig(t, `{"nats": {"url": "nats://file:4222"}}`)
	t.Setenv("STREAMKIT_NATS_URL", "nats://env:4222")
	t.Setenv("STREAMKIT_SUBJECT", "diag.env")
	t.Setenv("STREAMKIT_INTERVAL", "100ms")

	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://env:4222", cfg.NATS.URL)
	assert.Equal(t, "diag.env", cfg.Exporter.Subject)
	assert.Equal(t, 100*time.Millisecond, cfg.Exporter.Interval.Std())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing nats url", func(c *Config) { c.NATS.URL = "" }},
		{"missing subject", func(c *Config) { c.Exporter.Subject = "" }},
		{"zero interval", func(c *Config) { c.Exporter.Interval = 0 }},
		{"negative publish timeout", func(c *Config) { c.Exporter.PublishTimeout = Duration(-time.Second) }},
		{"metrics port out of range", func(c *Config) { c.Metrics.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), errors.ErrInvalidConfig)
		})
	}
}

func TestMissingFileFails(t *testing.T) {
	_, err := NewLoader().LoadFile("/nonexistent/config.json")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}
