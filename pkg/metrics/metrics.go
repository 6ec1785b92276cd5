// Package metrics provides Prometheus metrics for the ingestion engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ingestion metrics - row-level outcomes per source format
	rowsParsed  *prometheus.CounterVec
	rowsSkipped *prometheus.CounterVec
	batches     *prometheus.CounterVec

	// Decode metrics
	decodeFallbacks prometheus.Counter

	// Matching metrics - outcomes of the roster matcher cascade
	matchesByStrategy *prometheus.CounterVec
	namesUnresolved   prometheus.Counter

	// Pipeline metrics - delta submission to the persistence sink
	pipelineQueueSize  prometheus.Gauge
	chunksSubmitted    *prometheus.CounterVec
	chunkSubmitLatency prometheus.Histogram
	deltasApplied      prometheus.Counter
	deltasFailed       prometheus.Counter
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
		namespace:        "gruppetto",
		subsystem:        "ingest",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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

	m.rowsParsed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_parsed_total",
			Help:      "Total number of rows successfully parsed, by source format",
		},
		[]string{"source"},
	)

	m.rowsSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_skipped_total",
			Help:      "Total number of rows dropped during parsing, by source format and reason",
		},
		[]string{"source", "reason"},
	)

	m.batches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "batches_total",
			Help:      "Total number of ingestion batches, by source format and outcome",
		},
		[]string{"source", "status"},
	)

	m.decodeFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "decode_fallbacks_total",
		Help:      "Total number of inputs that required the last-resort encoding fallback",
	})

	m.matchesByStrategy = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "matches_total",
			Help:      "Total number of resolved rider names, by cascade strategy",
		},
		[]string{"strategy"},
	)

	m.namesUnresolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "names_unresolved_total",
		Help:      "Total number of rider names the matcher could not resolve",
	})

	m.pipelineQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_queue_size",
		Help:      "Current number of deltas waiting for submission",
	})

	m.chunksSubmitted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "pipeline_chunks_total",
			Help:      "Total number of delta chunks submitted to the sink, by outcome",
		},
		[]string{"status"},
	)

	m.chunkSubmitLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_chunk_latency_milliseconds",
		Help:      "Histogram of chunk submission latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.deltasApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_deltas_applied_total",
		Help:      "Total number of deltas the sink accepted",
	})

	m.deltasFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_deltas_failed_total",
		Help:      "Total number of deltas the sink rejected or that timed out",
	})
}

// Handler returns an HTTP handler exposing the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers recording on the global manager.

func RecordRowParsed(source string) {
	if globalManager.enabled {
		globalManager.rowsParsed.WithLabelValues(source).Inc()
	}
}

func RecordRowSkipped(source, reason string) {
	if globalManager.enabled {
		globalManager.rowsSkipped.WithLabelValues(source, reason).Inc()
	}
}

func RecordBatch(source, status string) {
	if globalManager.enabled {
		globalManager.batches.WithLabelValues(source, status).Inc()
	}
}

func RecordDecodeFallback() {
	if globalManager.enabled {
		globalManager.decodeFallbacks.Inc()
	}
}

func RecordMatch(strategy string) {
	if globalManager.enabled {
		globalManager.matchesByStrategy.WithLabelValues(strategy).Inc()
	}
}

func RecordNameUnresolved() {
	if globalManager.enabled {
		globalManager.namesUnresolved.Inc()
	}
}

func UpdatePipelineQueueSize(size int) {
	if globalManager.enabled {
		globalManager.pipelineQueueSize.Set(float64(size))
	}
}

func RecordChunkSubmitted(status string) {
	if globalManager.enabled {
		globalManager.chunksSubmitted.WithLabelValues(status).Inc()
	}
}

func RecordChunkSubmitLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.chunkSubmitLatency.Observe(latencyMs)
	}
}

func RecordDeltasApplied(n int) {
	if globalManager.enabled {
		globalManager.deltasApplied.Add(float64(n))
	}
}

func RecordDeltasFailed(n int) {
	if globalManager.enabled {
		globalManager.deltasFailed.Add(float64(n))
	}
}
