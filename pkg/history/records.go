package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

// ErrNotFound is returned when no sweep exists for a run ID.
var ErrNotFound = errors.New("sweep not found")

// VertexStat is the per-vertex summary stored with a sweep. Visit
// orders are not persisted, they can be regenerated by rerunning the
// sweep on the same graph.
type VertexStat struct {
	Start   int           `json:"start"`
	Visited int           `json:"visited"`
	Elapsed time.Duration `json:"elapsed"`
	Worker  int           `json:"worker"`
}

// Record is a persisted sweep.
type Record struct {
	RunID        string        `json:"run_id"`
	Vertices     int           `json:"vertices"`
	Edges        int           `json:"edges"`
	Workers      int           `json:"workers"`
	TotalElapsed time.Duration `json:"total_elapsed"`
	CreatedAt    time.Time     `json:"created_at"`
	Results      []VertexStat  `json:"results,omitempty"`
}

// RecordFromSweep converts a sweep result into its persisted form.
func RecordFromSweep(res *traverse.SweepResult, edges int) *Record {
	stats := make([]VertexStat, len(res.Results))
	for i, r := range res.Results {
		stats[i] = VertexStat{
			Start:   r.Start,
			Visited: len(r.Order),
			Elapsed: r.Elapsed,
			Worker:  r.Worker,
		}
	}

	return &Record{
		RunID:        res.RunID,
		Vertices:     len(res.Results),
		Edges:        edges,
		Workers:      res.Workers,
		TotalElapsed: res.TotalElapsed,
		Results:      stats,
	}
}

// RecordSweep stores a sweep record.
func (s *Store) RecordSweep(ctx context.Context, rec *Record) error {
	resultsJSON, err := json.Marshal(rec.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	query := `
		INSERT INTO sweeps (run_id, vertices, edges, workers, total_elapsed_ns, results, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`

	_, err = s.pool.Exec(ctx, query,
		rec.RunID,
		rec.Vertices,
		rec.Edges,
		rec.Workers,
		rec.TotalElapsed.Nanoseconds(),
		resultsJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to record sweep: %w", err)
	}

	return nil
}

// GetSweep retrieves a sweep by run ID, including per-vertex stats.
func (s *Store) GetSweep(ctx context.Context, runID string) (*Record, error) {
	query := `
		SELECT run_id, vertices, edges, workers, total_elapsed_ns, results, created_at
		FROM sweeps
		WHERE run_id = $1
	`

	rec := &Record{}
	var totalNS int64
	var resultsJSON []byte

	err := s.pool.QueryRow(ctx, query, runID).Scan(
		&rec.RunID,
		&rec.Vertices,
		&rec.Edges,
		&rec.Workers,
		&totalNS,
		&resultsJSON,
		&rec.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sweep: %w", err)
	}

	rec.TotalElapsed = time.Duration(totalNS)

	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &rec.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal results: %w", err)
		}
	}

	return rec, nil
}

// ListSweeps returns the most recent sweeps, newest first, without
// per-vertex stats.
func (s *Store) ListSweeps(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT run_id, vertices, edges, workers, total_elapsed_ns, created_at
		FROM sweeps
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweeps: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		var totalNS int64

		if err := rows.Scan(
			&rec.RunID,
			&rec.Vertices,
			&rec.Edges,
			&rec.Workers,
			&totalNS,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sweep: %w", err)
		}

		rec.TotalElapsed = time.Duration(totalNS)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sweeps: %w", err)
	}

	return records, nil
}
