package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace prefixes every studiodex metric.
const Namespace = "studiodex"

// Indexing Prometheus metrics.
var (
	IndexSlicesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "index_slices_total",
			Help:      "Total number of document slices flushed to the engine",
		},
		[]string{"index", "status"},
	)

	IndexDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "index_documents_total",
			Help:      "Total number of documents the engine reported as indexed",
		},
		[]string{"index", "op"}, // "index" / "update"
	)

	IndexSliceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "index_slice_duration_seconds",
			Help:      "Duration of one slice flush in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"index"},
	)

	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "index_builds_total",
			Help:      "Total number of full index builds",
		},
		[]string{"index", "status"},
	)

	IndexBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Full index build duration in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"index"},
	)

	IndexSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "index_size_documents",
			Help:      "Number of documents in the live index after the last build",
		},
		[]string{"index"},
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers Prometheus indexing metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexSlicesTotal)
	prometheus.MustRegister(IndexDocumentsTotal)
	prometheus.MustRegister(IndexSliceDuration)
	prometheus.MustRegister(IndexBuildsTotal)
	prometheus.MustRegister(IndexBuildDuration)
	prometheus.MustRegister(IndexSize)
	indexMetricsRegistered = true
}
