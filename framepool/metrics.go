package framepool

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/streamkit/metric"
)

// poolMetrics holds Prometheus metrics for pool operations.
type poolMetrics struct {
	acquires prometheus.Counter
	hits     prometheus.Counter
	misses   prometheus.Counter
	releases prometheus.Counter
	live     prometheus.Gauge
}

// newPoolMetrics creates and registers pool metrics with the provided registry.
func newPoolMetrics(registry *metric.Registry, prefix string) (*poolMetrics, error) {
	m := &poolMetrics{
		acquires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "framepool",
			Name:        "acquires_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of buffer acquisitions",
		}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "framepool",
			Name:        "hits_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of acquisitions served from the free list",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "framepool",
			Name:        "misses_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of acquisitions requiring fresh allocation",
		}),
		releases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "framepool",
			Name:        "releases_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of final buffer releases",
		}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "streamkit",
			Subsystem:   "framepool",
			Name:        "live",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Number of buffers currently held by callers",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(prefix, "framepool_acquires", m.acquires); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "framepool_hits", m.hits); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "framepool_misses", m.misses); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "framepool_releases", m.releases); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "framepool_live", m.live); err != nil {
		return nil, err
	}

	return m, nil
}

// recordAcquire increments the acquire counter and hit or miss, then
// updates the live gauge.
func (m *poolMetrics) recordAcquire(reused bool, live int64) {
	m.acquires.Inc()
	if reused {
		m.hits.Inc()
	} else {
		m.misses.Inc()
	}
	m.live.Set(float64(live))
}

// recordRelease increments the release counter and updates the live gauge.
func (m *poolMetrics) recordRelease(live int64) {
	m.releases.Inc()
	m.live.Set(float64(live))
}
