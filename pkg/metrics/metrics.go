package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sweep status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSweep records one all-vertices sweep
func (r *Registry) RecordSweep(status string, duration time.Duration, vertices, workers int) {
	r.SweepsTotal.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		r.SweepDuration.Observe(duration.Seconds())
		r.SweepVertices.Observe(float64(vertices))
	}
	r.SweepWorkers.Set(float64(workers))
}

// RecordTraversal records one BFS traversal inside a sweep
func (r *Registry) RecordTraversal(duration time.Duration, visited int) {
	r.TraversalDuration.Observe(duration.Seconds())
	r.TraversalVerticesVisited.Observe(float64(visited))
}

// SetGraph updates the gauges describing the currently loaded graph
func (r *Registry) SetGraph(vertices, edges int) {
	r.GraphVertices.Set(float64(vertices))
	r.GraphEdges.Set(float64(edges))
}

// RecordGraphLoad counts a graph load from the given source
// (e.g. "file", "random", "api")
func (r *Registry) RecordGraphLoad(source string) {
	r.GraphLoadsTotal.WithLabelValues(source).Inc()
}

// Handler returns the HTTP handler exposing this registry's metrics
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
