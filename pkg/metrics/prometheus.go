// Package metrics provides Prometheus metrics for the REMATCH replay service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the REMATCH service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Resolution Metrics - How events map onto video assets
	resolutionsByConfidence *prometheus.CounterVec
	coverageFallbacks       prometheus.Counter
	resolutionErrors        prometheus.Counter

	// Sampling Metrics - Frame extraction and detection quality
	samplesSucceeded prometheus.Counter
	samplesFailed    prometheus.Counter
	seekLatency      prometheus.Histogram
	detectorLatency  prometheus.Histogram
	detectorErrors   prometheus.Counter

	// Track Metrics - Interpolation output quality
	tracksBuilt           prometheus.Counter
	tracksDegraded        prometheus.Counter
	interpolationDuration prometheus.Histogram
	trackFrames           prometheus.Histogram

	// Queue Metrics - Replay job queue performance
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker Metrics - Replay job processing
	workerActiveCount    prometheus.Gauge
	workerJobLatency     prometheus.Histogram
	workerErrors         prometheus.Counter
	replayJobsCompleted  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rematch",
		subsystem:        "replay",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Resolution metrics
	m.resolutionsByConfidence = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "resolutions_total",
			Help:      "Total number of event-to-asset resolutions by confidence tier",
		},
		[]string{"confidence"},
	)

	m.coverageFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coverage_fallbacks_total",
		Help:      "Total number of last-resort asset selections (low-confidence coverage)",
	})

	m.resolutionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_errors_total",
		Help:      "Total number of failed resolutions (no assets available)",
	})

	// Sampling metrics
	m.samplesSucceeded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_succeeded_total",
		Help:      "Total number of detection frames successfully sampled",
	})

	m.samplesFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_failed_total",
		Help:      "Total number of samples recorded as gaps (detector or seek failure)",
	})

	m.seekLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seek_latency_milliseconds",
		Help:      "Histogram of media source seek latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.detectorLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "detector_latency_milliseconds",
		Help:      "Histogram of detector call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.detectorErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "detector_errors_total",
		Help:      "Total number of detector call failures",
	})

	// Track metrics
	m.tracksBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracks_built_total",
		Help:      "Total number of animation tracks produced",
	})

	m.tracksDegraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracks_degraded_total",
		Help:      "Total number of tracks built from fewer than two detection frames",
	})

	m.interpolationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "interpolation_duration_milliseconds",
		Help:      "Histogram of interpolation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.trackFrames = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "track_frames",
		Help:      "Histogram of frames per produced animation track",
		Buckets:   []float64{1, 10, 25, 50, 100, 250, 500, 1000},
	})

	// Queue metrics
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the replay job queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum capacity of the replay job queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Queue utilization ratio (size / capacity)",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of jobs enqueued",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of jobs dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of failed enqueue operations (backpressure)",
	})

	// Worker metrics
	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Current number of active replay workers",
	})

	m.workerJobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_job_latency_milliseconds",
		Help:      "Histogram of end-to-end replay job latency in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of replay jobs that failed",
	})

	m.replayJobsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_jobs_completed_total",
		Help:      "Total number of replay jobs completed successfully",
	})

	// HTTP metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Resolution metric helpers.

// RecordResolution increments the resolution counter for a confidence tier.
func RecordResolution(confidence string) {
	globalManager.resolutionsByConfidence.WithLabelValues(confidence).Inc()
}

// RecordCoverageFallback increments the last-resort coverage fallback counter.
func RecordCoverageFallback() {
	globalManager.coverageFallbacks.Inc()
}

// RecordResolutionError increments the resolution error counter.
func RecordResolutionError() {
	globalManager.resolutionErrors.Inc()
}

// Sampling metric helpers.

// RecordSampleSucceeded increments the successful sample counter.
func RecordSampleSucceeded() {
	globalManager.samplesSucceeded.Inc()
}

// RecordSampleFailed increments the gap counter.
func RecordSampleFailed() {
	globalManager.samplesFailed.Inc()
}

// RecordSeekLatency records a seek latency observation.
func RecordSeekLatency(latencyMs float64) {
	globalManager.seekLatency.Observe(latencyMs)
}

// RecordDetectorLatency records a detector call latency observation.
func RecordDetectorLatency(latencyMs float64) {
	globalManager.detectorLatency.Observe(latencyMs)
}

// RecordDetectorError increments the detector failure counter.
func RecordDetectorError() {
	globalManager.detectorErrors.Inc()
}

// Track metric helpers.

// RecordTrackBuilt records a produced track and its frame count.
func RecordTrackBuilt(frames int) {
	globalManager.tracksBuilt.Inc()
	globalManager.trackFrames.Observe(float64(frames))
}

// RecordTrackDegraded increments the degraded track counter.
func RecordTrackDegraded() {
	globalManager.tracksDegraded.Inc()
}

// RecordInterpolationDuration records an interpolation duration observation.
func RecordInterpolationDuration(durationMs float64) {
	globalManager.interpolationDuration.Observe(durationMs)
}

// Queue metric helpers.

// UpdateQueueSize sets the current queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization gauge.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker metric helpers.

// UpdateWorkerActiveCount sets the active worker gauge.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerJobLatency records an end-to-end job latency observation.
func RecordWorkerJobLatency(latencyMs float64) {
	globalManager.workerJobLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordReplayJobCompleted increments the completed job counter.
func RecordReplayJobCompleted() {
	globalManager.replayJobsCompleted.Inc()
}

// HTTP metric helpers.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration observation.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Error metric helpers.

// RecordErrorByComponent increments the per-component error counter.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System metric helpers.

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
