package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSweepMetrics() {
	r.SweepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "reach_sweeps_total",
			Help: "Total number of all-vertices sweeps by outcome",
		},
		[]string{"status"},
	)

	r.SweepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reach_sweep_duration_seconds",
			Help:    "Wall-clock duration of a whole sweep in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.SweepVertices = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reach_sweep_vertices",
			Help:    "Number of vertices swept per run",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	r.SweepWorkers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "reach_sweep_workers",
			Help: "Worker pool size of the most recent sweep",
		},
	)

	r.TraversalDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reach_traversal_duration_seconds",
			Help:    "Duration of a single BFS traversal in seconds",
			Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
		},
	)

	r.TraversalVerticesVisited = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reach_traversal_vertices_visited",
			Help:    "Vertices visited by a single BFS traversal",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)
}
