package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// Default histogram layouts.
var (
	// Catalog round trips range from tens of milliseconds to the 30s timeout.
	defaultCatalogBuckets = []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}
	defaultHTTPBuckets    = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}
	// Event counts per response; the catalog caps one query at 20000 records.
	defaultEventBuckets = []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 20000}
)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithCatalogBuckets sets the buckets of the catalog and fetch job latency
// histograms, in milliseconds.
func WithCatalogBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.catalogBuckets = buckets
		}
	}
}

// WithHTTPBuckets sets the buckets of the HTTP request duration histogram,
// in milliseconds.
func WithHTTPBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.httpBuckets = buckets
		}
	}
}

// WithEventBuckets sets the buckets of the events-per-fetch histogram.
func WithEventBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.eventBuckets = buckets
		}
	}
}

// WithRefreshInterval sets how often cmd refreshes the runtime gauges.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.refreshInterval = interval
		}
	}
}

// WithConstLabels attaches labels such as the deployment region to every
// metric.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if len(labels) > 0 {
			m.constLabels = labels
		}
	}
}

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// RefreshInterval returns the runtime gauge refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
