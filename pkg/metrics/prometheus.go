// Package metrics provides Prometheus metrics for the replay pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline throughput
	recordsDecoded   *prometheus.CounterVec
	eventsNormalized *prometheus.CounterVec
	eventsMerged     prometheus.Counter

	// Engine behavior
	eventsObserved  *prometheus.CounterVec
	eventsFiltered  prometheus.Counter
	eventsMalformed prometheus.Counter
	detections      *prometheus.CounterVec

	// Stage timings
	stageDuration *prometheus.HistogramVec
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
		namespace:        "uavdetect",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsDecoded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_decoded_total",
			Help:      "Total decoded records read from the log, by record kind",
		},
		[]string{"kind"},
	)

	m.eventsNormalized = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_normalized_total",
			Help:      "Total events produced by the normalizer, by event kind",
		},
		[]string{"kind"},
	)

	m.eventsMerged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_merged_total",
		Help:      "Total events in the merged chronological stream",
	})

	m.eventsObserved = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_observed_total",
			Help:      "Total in-window events fed to the detection engine, by kind",
		},
		[]string{"kind"},
	)

	m.eventsFiltered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_filtered_total",
		Help:      "Total events dropped by the window-of-interest filter",
	})

	m.eventsMalformed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_malformed_total",
		Help:      "Total events rejected for a missing payload (aborts the run)",
	})

	m.detections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "detections_total",
			Help:      "Total detections emitted, by severity",
		},
		[]string{"severity"},
	)

	m.stageDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent per pipeline stage",
			Buckets:   m.histogramBuckets,
		},
		[]string{"stage"},
	)
}

// RecordRecordsDecoded adds decoded record rows for one kind.
func RecordRecordsDecoded(kind string, n int) {
	globalManager.recordsDecoded.WithLabelValues(kind).Add(float64(n))
}

// RecordEventsNormalized adds normalized events for one kind.
func RecordEventsNormalized(kind string, n int) {
	globalManager.eventsNormalized.WithLabelValues(kind).Add(float64(n))
}

// RecordEventsMerged adds events to the merged-stream counter.
func RecordEventsMerged(n int) {
	globalManager.eventsMerged.Add(float64(n))
}

// RecordEventObserved increments the in-window event counter for a kind.
func RecordEventObserved(kind string) {
	globalManager.eventsObserved.WithLabelValues(kind).Inc()
}

// RecordEventFiltered increments the window-filter drop counter.
func RecordEventFiltered() {
	globalManager.eventsFiltered.Inc()
}

// RecordMalformedEvent increments the malformed event counter.
func RecordMalformedEvent() {
	globalManager.eventsMalformed.Inc()
}

// RecordDetection increments the detection counter for a severity.
func RecordDetection(severity string) {
	globalManager.detections.WithLabelValues(severity).Inc()
}

// RecordStageDuration records wall time for one pipeline stage.
func RecordStageDuration(stage string, seconds float64) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
