package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/streamkit/metric"
)

// exporterMetrics holds Prometheus metrics for export operations.
type exporterMetrics struct {
	exports prometheus.Counter
	errs    prometheus.Counter
	bytes   prometheus.Counter
}

// newExporterMetrics creates and registers exporter metrics with the
// provided registry.
func newExporterMetrics(registry *metric.Registry) (*exporterMetrics, error) {
	m := &exporterMetrics{
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streamkit",
			Subsystem: "exporter",
			Name:      "exports_total",
			Help:      "Total number of snapshots published",
		}),
		errs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streamkit",
			Subsystem: "exporter",
			Name:      "errors_total",
			Help:      "Total number of failed export cycles",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "streamkit",
			Subsystem: "exporter",
			Name:      "bytes_total",
			Help:      "Total encoded bytes published",
		}),
	}

	if err := registry.RegisterCounter("exporter", "exports", m.exports); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("exporter", "errors", m.errs); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter("exporter", "bytes", m.bytes); err != nil {
		return nil, err
	}

	return m, nil
}

// recordExport increments the export counter and adds the payload size.
func (m *exporterMetrics) recordExport(size int) {
	m.exports.Inc()
	m.bytes.Add(float64(size))
}

// recordError increments the error counter.
func (m *exporterMetrics) recordError() {
	m.errs.Inc()
}
