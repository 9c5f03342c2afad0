// Package metrics provides Prometheus metrics for the tracking ingestion service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultBuckets are latency buckets in milliseconds.
var defaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// Manager manages all Prometheus metrics for the ingestion service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Reconciliation
	reconcileStates   *prometheus.CounterVec
	reconcileDeletes  *prometheus.CounterVec
	reconcileDuration prometheus.Histogram

	// Persistence
	rowsWritten    *prometheus.CounterVec
	batchesWritten *prometheus.CounterVec
	batchLatency   *prometheus.HistogramVec
	writeErrors    *prometheus.CounterVec
	queryLatency   prometheus.Histogram

	// Pipeline
	ingestTotal    *prometheus.CounterVec
	ingestDuration prometheus.Histogram
	colorFallbacks prometheus.Counter

	// Service mode
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueRejected  *prometheus.CounterVec
	workerActive   prometheus.Gauge
	videosInFlight prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "football",
		subsystem:        "ingest",
		histogramBuckets: defaultBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.reconcileStates = m.counterVec("reconcile_states_total",
		"Reconciliation outcomes by classified state", "state")
	m.reconcileDeletes = m.counterVec("reconcile_deletes_total",
		"Partial-run cleanups by table", "table")
	m.reconcileDuration = m.histogram("reconcile_duration_milliseconds",
		"Time spent classifying and repairing a video before ingestion")

	m.rowsWritten = m.counterVec("rows_written_total",
		"Rows persisted by table", "table")
	m.batchesWritten = m.counterVec("batches_written_total",
		"Batches executed by table", "table")
	m.batchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "batch_latency_milliseconds",
		Help:        "Latency of a single batch execution",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"table"})
	m.writeErrors = m.counterVec("write_errors_total",
		"Failed batch executions by table", "table")
	m.queryLatency = m.histogram("query_latency_milliseconds",
		"Latency of single statements (counts and deletes)")

	m.ingestTotal = m.counterVec("videos_total",
		"Ingestion attempts by outcome", "outcome")
	m.ingestDuration = m.histogram("duration_milliseconds",
		"End-to-end ingestion duration for one video")
	m.colorFallbacks = promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "color_fallbacks_total",
		Help:        "Player rows stored with the N/A team color sentinel",
		ConstLabels: m.customLabels,
	})

	m.queueSize = m.gauge("queue_size", "Current number of queued ingestion jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued ingestion jobs")
	m.queueRejected = m.counterVec("queue_rejected_total",
		"Jobs rejected before enqueue by reason", "reason")
	m.workerActive = m.gauge("workers_active", "Workers currently running an ingestion")
	m.videosInFlight = m.gauge("videos_in_flight", "Videos holding an ingestion lease")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
}

// RecordReconcileState counts a reconciliation outcome.
func RecordReconcileState(state string) {
	if !globalManager.enabled {
		return
	}
	globalManager.reconcileStates.WithLabelValues(state).Inc()
}

// RecordReconcileDelete counts a cleanup of one table.
func RecordReconcileDelete(table string) {
	if !globalManager.enabled {
		return
	}
	globalManager.reconcileDeletes.WithLabelValues(table).Inc()
}

// RecordReconcileDuration records reconciliation time in milliseconds.
func RecordReconcileDuration(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.reconcileDuration.Observe(latencyMs)
}

// RecordBatch records a successful batch of n rows for table.
func RecordBatch(table string, n int, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.rowsWritten.WithLabelValues(table).Add(float64(n))
	globalManager.batchesWritten.WithLabelValues(table).Inc()
	globalManager.batchLatency.WithLabelValues(table).Observe(latencyMs)
}

// RecordWriteError counts a failed batch for table.
func RecordWriteError(table string) {
	if !globalManager.enabled {
		return
	}
	globalManager.writeErrors.WithLabelValues(table).Inc()
}

// RecordQueryLatency records single statement latency in milliseconds.
func RecordQueryLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.queryLatency.Observe(latencyMs)
}

// RecordIngest records the outcome and duration of one ingestion.
func RecordIngest(outcome string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.ingestTotal.WithLabelValues(outcome).Inc()
	globalManager.ingestDuration.Observe(durationMs)
}

// RecordColorFallbacks adds n N/A color resolutions.
func RecordColorFallbacks(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.colorFallbacks.Add(float64(n))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueRejected counts a job that never reached the queue.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// AddWorkerActive adjusts the number of busy workers by delta.
func AddWorkerActive(delta int) {
	globalManager.workerActive.Add(float64(delta))
}

// UpdateVideosInFlight sets the number of leased videos.
func UpdateVideosInFlight(n int64) {
	globalManager.videosInFlight.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
