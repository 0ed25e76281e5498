// Package metrics provides Prometheus metrics for the quakeboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the quakeboard service.
type Manager struct {
	namespace       string
	subsystem       string
	catalogBuckets  []float64
	httpBuckets     []float64
	eventBuckets    []float64
	refreshInterval time.Duration
	constLabels     map[string]string
	registry        prometheus.Registerer

	// Fetch pipeline
	fetchesTotal     *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	staleResponses   prometheus.Counter
	eventsFetched    prometheus.Counter
	eventsDropped    prometheus.Counter
	eventsPerFetch   prometheus.Histogram
	lastEventCount   prometheus.Gauge
	snapshotsTotal   prometheus.Counter
	snapshotLastUnix prometheus.Gauge

	// Catalog client
	catalogRequests *prometheus.CounterVec
	catalogLatency  prometheus.Histogram

	// Async fetch jobs
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueRejected     *prometheus.CounterVec
	jobsDuplicate     prometheus.Counter
	workerCount       prometheus.Gauge
	workerJobLatency  prometheus.Histogram
	workerErrorsTotal prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "quakeboard",
		subsystem:       "dashboard",
		catalogBuckets:  defaultCatalogBuckets,
		httpBuckets:     defaultHTTPBuckets,
		eventBuckets:    defaultEventBuckets,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.fetchesTotal = auto.NewCounterVec(
		m.counterOpts("fetches_total", "Fetch cycles by outcome (success, empty, catalog_error, validation_error)"),
		[]string{"outcome", "mode"},
	)
	m.validationErrors = auto.NewCounterVec(
		m.counterOpts("validation_errors_total", "Rejected filter inputs by reason"),
		[]string{"reason"},
	)
	m.staleResponses = auto.NewCounter(m.counterOpts("stale_responses_total", "Fetch results discarded because a newer fetch was issued"))
	m.eventsFetched = auto.NewCounter(m.counterOpts("events_fetched_total", "Earthquake events accepted from the catalog"))
	m.eventsDropped = auto.NewCounter(m.counterOpts("events_dropped_total", "Catalog records dropped for missing coordinates"))
	m.eventsPerFetch = auto.NewHistogram(m.histogramOpts("events_per_fetch", "Events accepted from one catalog response", m.eventBuckets))
	m.lastEventCount = auto.NewGauge(m.gaugeOpts("last_event_count", "Number of events in the currently rendered snapshot"))
	m.snapshotsTotal = auto.NewCounter(m.counterOpts("snapshots_published_total", "Snapshots published to the session"))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_unix", "Unix timestamp of the last published snapshot"))

	m.catalogRequests = auto.NewCounterVec(
		m.counterOpts("catalog_requests_total", "Catalog HTTP requests by status class"),
		[]string{"status"},
	)
	m.catalogLatency = auto.NewHistogram(m.histogramOpts("catalog_latency_milliseconds", "Catalog round trip latency in milliseconds", m.catalogBuckets))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Pending asynchronous fetch jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the fetch job queue"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Fetch jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Fetch jobs dequeued"))
	m.queueRejected = auto.NewCounterVec(
		m.counterOpts("queue_rejected_total", "Fetch jobs rejected by reason"),
		[]string{"reason"},
	)
	m.jobsDuplicate = auto.NewCounter(m.counterOpts("jobs_duplicate_total", "Async fetch submissions ignored as duplicates"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Fetch workers running"))
	m.workerJobLatency = auto.NewHistogram(m.histogramOpts("worker_job_latency_milliseconds", "Time a worker spends on one fetch job", m.catalogBuckets))
	m.workerErrorsTotal = auto.NewCounter(m.counterOpts("worker_errors_total", "Fetch jobs that ended in an error"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status code"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.httpBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorsByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordFetch counts one fetch cycle. mode is "sync" or "async".
func RecordFetch(outcome, mode string) {
	globalManager.fetchesTotal.WithLabelValues(outcome, mode).Inc()
}

// RecordValidationError counts a rejected filter input.
func RecordValidationError(reason string) {
	globalManager.validationErrors.WithLabelValues(reason).Inc()
}

// RecordStaleResponse counts a discarded out-of-date fetch result.
func RecordStaleResponse() {
	globalManager.staleResponses.Inc()
}

// RecordEventsFetched adds accepted and dropped record counts of one response.
func RecordEventsFetched(accepted, dropped int) {
	globalManager.eventsFetched.Add(float64(accepted))
	globalManager.eventsPerFetch.Observe(float64(accepted))
	globalManager.eventsDropped.Add(float64(dropped))
}

// RecordSnapshotPublished marks a snapshot replacement.
func RecordSnapshotPublished(eventCount int, at time.Time) {
	globalManager.snapshotsTotal.Inc()
	globalManager.lastEventCount.Set(float64(eventCount))
	globalManager.snapshotLastUnix.Set(float64(at.Unix()))
}

// RecordCatalogRequest records one catalog round trip. status is the HTTP
// status code as text, or "transport" when no response arrived.
func RecordCatalogRequest(status string, latencyMs float64) {
	globalManager.catalogRequests.WithLabelValues(status).Inc()
	globalManager.catalogLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueRejected counts a job the queue refused.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordJobDuplicate counts an ignored duplicate submission.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// UpdateWorkerCount sets the worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerJobLatency records the duration of one fetch job.
func RecordWorkerJobLatency(latencyMs float64) {
	globalManager.workerJobLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed fetch job.
func RecordWorkerError() {
	globalManager.workerErrorsTotal.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
