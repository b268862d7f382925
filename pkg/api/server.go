// Package api serves the graph and the sweep engine over HTTP: load or
// generate a graph, inspect it, run all-vertices sweeps, and reach the
// optional history, archive and GraphQL surfaces.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/dd0wney/cluso-reach/pkg/archive"
	"github.com/dd0wney/cluso-reach/pkg/auth"
	"github.com/dd0wney/cluso-reach/pkg/config"
	"github.com/dd0wney/cluso-reach/pkg/gql"
	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/health"
	"github.com/dd0wney/cluso-reach/pkg/history"
	"github.com/dd0wney/cluso-reach/pkg/logging"
	"github.com/dd0wney/cluso-reach/pkg/metrics"
	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

// ErrNoGraph is returned by operations that need a loaded graph.
var ErrNoGraph = errors.New("no graph loaded")

// maxBodyBytes bounds request bodies. Matrix uploads grow with N², so
// this is generous; everything else is tiny JSON.
const maxBodyBytes = 64 << 20

// Server is the HTTP API server. It owns a single mutable graph slot;
// loads replace the graph wholesale and sweeps read it under a shared
// lock, so a sweep always runs against one consistent graph.
type Server struct {
	mu    sync.RWMutex
	graph *graph.Graph

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	checker *health.Checker
	jwt     *auth.JWTManager
	history *history.Store
	archive *archive.Store
	gqlh    *gql.Handler

	startTime time.Time
}

// NewServer creates an API server from cfg. Bearer-token auth is
// enabled when cfg carries a JWT secret; the history and archive
// stores are attached separately by the caller that owns them.
func NewServer(cfg *config.Config, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger.With(logging.Component("api")),
		metrics:   metrics.DefaultRegistry(),
		startTime: time.Now(),
	}

	if cfg.Server.JWTSecret != "" {
		manager, err := auth.NewJWTManager(cfg.Server.JWTSecret, 24*time.Hour)
		if err != nil {
			return nil, fmt.Errorf("configure auth: %w", err)
		}
		s.jwt = manager
	}

	schema, err := gql.NewSchema(s)
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	s.gqlh = gql.NewHandler(schema)

	s.checker = health.NewChecker()
	s.checker.RegisterCheck("graph", health.GraphCheck(func() (int, int, bool) {
		g, ok := s.CurrentGraph()
		if !ok {
			return 0, 0, false
		}
		return g.VertexCount(), g.EdgeCount(), true
	}))
	s.checker.RegisterCheck("goroutines", health.GoroutineCheck(1000))
	s.checker.RegisterLivenessCheck("goroutines", health.GoroutineCheck(1000))
	s.checker.RegisterReadinessCheck("graph", health.GraphCheck(func() (int, int, bool) {
		g, ok := s.CurrentGraph()
		if !ok {
			return 0, 0, false
		}
		return g.VertexCount(), g.EdgeCount(), true
	}))

	return s, nil
}

// SetHistory attaches the sweep-history store. Completed sweeps are
// recorded there and the /sweeps endpoints read from it.
func (s *Server) SetHistory(store *history.Store) {
	s.history = store
	s.checker.RegisterCheck("database", health.DatabaseCheck(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return store.Ping(ctx)
	}))
}

// SetArchive attaches the snapshot archive store backing /archive.
func (s *Server) SetArchive(store *archive.Store) {
	s.archive = store
}

// Handler returns the full HTTP handler: all routes wrapped in the
// middleware chain. Mutating endpoints require auth when configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.checker.HTTPHandler())
	mux.HandleFunc("/health/live", s.checker.LivenessHandler())
	mux.HandleFunc("/health/ready", s.checker.ReadinessHandler())
	mux.Handle("/metrics", s.metrics.Handler())

	mux.HandleFunc("/graph", s.handleGraph)
	mux.HandleFunc("/graph/random", s.requireAuth(s.handleGraphRandom))
	mux.HandleFunc("/graph/matrix", s.handleGraphMatrix)
	mux.HandleFunc("/graph/neighbors", s.handleGraphNeighbors)

	mux.HandleFunc("/sweep", s.requireAuth(s.handleSweep))
	mux.HandleFunc("/sweeps", s.handleSweepList)
	mux.HandleFunc("/sweeps/", s.handleSweepGet) // /sweeps/{run_id}

	mux.HandleFunc("/archive", s.handleArchiveList)
	mux.HandleFunc("/archive/save", s.requireAuth(s.handleArchiveSave))
	mux.HandleFunc("/archive/load", s.requireAuth(s.handleArchiveLoad))

	mux.HandleFunc("/auth/token", s.handleToken)
	mux.Handle("/graphql", s.gqlh)

	var handler http.Handler = mux
	handler = s.bodyLimitMiddleware(handler, maxBodyBytes)
	handler = s.corsMiddleware(handler)
	handler = s.metricsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.recoveryMiddleware(handler)
	return handler
}

// Addr returns the listen address configured for the server.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
}

// CurrentGraph returns the loaded graph, or false when none is.
func (s *Server) CurrentGraph() (*graph.Graph, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, s.graph != nil
}

// setGraph installs g as the current graph and refreshes the gauges.
func (s *Server) setGraph(g *graph.Graph, source string) {
	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()

	s.metrics.SetGraph(g.VertexCount(), g.EdgeCount())
	s.metrics.RecordGraphLoad(source)
	s.logger.Info("graph loaded",
		logging.String("source", source),
		logging.VertexCount(g.VertexCount()),
		logging.Int("edges", g.EdgeCount()),
	)
}

// LoadRandom generates a random graph of the given size and installs
// it. A nil seed draws a fresh graph each call.
func (s *Server) LoadRandom(vertices int, seed *int64) (*graph.Graph, error) {
	var (
		g   *graph.Graph
		err error
	)
	if seed != nil {
		g, err = graph.RandomSeeded(vertices, *seed)
	} else {
		g, err = graph.Random(vertices)
	}
	if err != nil {
		return nil, err
	}

	s.setGraph(g, "random")
	return g, nil
}

// Sweep runs a timed BFS from every vertex of the loaded graph over a
// pool of the given size, records metrics, and persists the run to the
// history store when one is attached.
func (s *Server) Sweep(workers int) (*traverse.SweepResult, error) {
	g, ok := s.CurrentGraph()
	if !ok {
		return nil, ErrNoGraph
	}

	timer := logging.StartTimer(s.logger, "sweep complete",
		logging.VertexCount(g.VertexCount()),
		logging.Workers(workers),
	)

	result, err := traverse.FromAllVertices(g, workers)
	if err != nil {
		s.metrics.RecordSweep(metrics.StatusError, 0, 0, workers)
		timer.EndError(err)
		return nil, err
	}

	s.metrics.RecordSweep(metrics.StatusSuccess, result.TotalElapsed, result.VertexCount(), workers)
	for i := range result.Results {
		s.metrics.RecordTraversal(result.Results[i].Elapsed, len(result.Results[i].Order))
	}
	timer.End()

	if s.history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rec := history.RecordFromSweep(result, g.EdgeCount())
		if err := s.history.RecordSweep(ctx, rec); err != nil {
			// History is best effort; the sweep itself succeeded
			s.logger.Warn("failed to record sweep history",
				logging.RunID(result.RunID),
				logging.Error(err),
			)
		}
	}

	return result, nil
}

// Info describes the currently loaded graph.
func (s *Server) Info() GraphResponse {
	g, ok := s.CurrentGraph()
	if !ok {
		return GraphResponse{}
	}
	return GraphResponse{
		Loaded:   true,
		Vertices: g.VertexCount(),
		Edges:    g.EdgeCount(),
	}
}

// Uptime reports how long the server has been running.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}

// StartSystemMetrics refreshes the runtime gauges every interval until
// stop is closed.
func (s *Server) StartSystemMetrics(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				s.metrics.UptimeSeconds.Set(time.Since(s.startTime).Seconds())
				s.metrics.GoRoutines.Set(float64(runtime.NumGoroutine()))
				s.metrics.MemoryAllocBytes.Set(float64(m.Alloc))
				s.metrics.MemorySysBytes.Set(float64(m.Sys))
			case <-stop:
				return
			}
		}
	}()
}

// respondJSON writes data as a JSON response with the given status.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

// respondError writes a JSON error response with the given status.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// sanitizeError logs err in full and returns a user-safe message.
// Internal details like connection strings stay out of responses.
func (s *Server) sanitizeError(err error, operation string) string {
	if err == nil {
		return ""
	}
	s.logger.Error("request failed",
		logging.Operation(operation),
		logging.Error(err),
	)
	return fmt.Sprintf("%s failed", operation)
}
