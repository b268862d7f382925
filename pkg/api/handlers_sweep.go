package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dd0wney/cluso-reach/pkg/history"
	"github.com/dd0wney/cluso-reach/pkg/traverse"
	"github.com/dd0wney/cluso-reach/pkg/validation"
)

// defaultSweepListLimit bounds GET /sweeps when no limit is given.
const defaultSweepListLimit = 20

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.SweepRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req)
	if decoder.RespondError() {
		return
	}

	// Omitted worker count falls back to the configured default
	if req.Workers == 0 {
		req.Workers = s.cfg.Sweep.Workers
	}
	if err := validation.ValidateSweepRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.Sweep(req.Workers)
	if err != nil {
		if errors.Is(err, ErrNoGraph) {
			s.respondError(w, http.StatusNotFound, ErrNoGraph.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "sweep"))
		return
	}

	s.respondJSON(w, http.StatusOK, sweepToResponse(result, req.IncludeOrders))
}

func (s *Server) handleSweepList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.history == nil {
		s.respondError(w, http.StatusServiceUnavailable, "sweep history not configured")
		return
	}

	limit := defaultSweepListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	records, err := s.history.ListSweeps(r.Context(), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "list sweeps"))
		return
	}

	responses := make([]SweepRecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, recordToResponse(rec))
	}
	s.respondJSON(w, http.StatusOK, responses)
}

func (s *Server) handleSweepGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.history == nil {
		s.respondError(w, http.StatusServiceUnavailable, "sweep history not configured")
		return
	}

	runID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/sweeps/"), "/")
	if runID == "" {
		s.respondError(w, http.StatusBadRequest, "missing run ID")
		return
	}

	rec, err := s.history.GetSweep(r.Context(), runID)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "sweep not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "get sweep"))
		return
	}

	s.respondJSON(w, http.StatusOK, recordToResponse(rec))
}

// sweepToResponse converts a sweep result to its JSON form. Visit
// orders are only carried when asked for; on large graphs they
// dominate the payload.
func sweepToResponse(res *traverse.SweepResult, includeOrders bool) SweepResponse {
	results := make([]TraversalResult, len(res.Results))
	for i, r := range res.Results {
		results[i] = TraversalResult{
			Start:     r.Start,
			Visited:   len(r.Order),
			ElapsedMS: durationMS(r.Elapsed),
			Worker:    r.Worker,
		}
		if includeOrders {
			results[i].Order = r.Order
		}
	}

	stats := res.WorkerStats()
	utilization := make([]WorkerUtilization, len(stats))
	for i, ws := range stats {
		utilization[i] = WorkerUtilization{
			Worker: ws.Worker,
			Tasks:  ws.Tasks,
			BusyMS: durationMS(ws.Busy),
		}
	}

	return SweepResponse{
		RunID:          res.RunID,
		Vertices:       res.VertexCount(),
		Workers:        res.Workers,
		TotalElapsedMS: durationMS(res.TotalElapsed),
		Results:        results,
		WorkerStats:    utilization,
	}
}

func recordToResponse(rec *history.Record) SweepRecordResponse {
	return SweepRecordResponse{
		RunID:          rec.RunID,
		Vertices:       rec.Vertices,
		Edges:          rec.Edges,
		Workers:        rec.Workers,
		TotalElapsedMS: durationMS(rec.TotalElapsed),
		CreatedAt:      rec.CreatedAt,
	}
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
