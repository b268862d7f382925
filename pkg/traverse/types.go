package traverse

import (
	"time"
)

// VertexResult is the outcome of one timed traversal.
type VertexResult struct {
	Start   int           `json:"start"`   // start vertex
	Order   []int         `json:"order"`   // BFS visitation order, begins with Start
	Elapsed time.Duration `json:"elapsed"` // wall-clock time of the traversal
	Worker  int           `json:"worker"`  // worker that ran it
}

// SweepResult aggregates an all-vertices sweep. Results are ordered by
// start vertex ascending regardless of completion order.
type SweepResult struct {
	RunID        string         `json:"run_id"`
	Results      []VertexResult `json:"results"`
	TotalElapsed time.Duration  `json:"total_elapsed"`
	Workers      int            `json:"workers"`
}

// WorkerStats reports how much of a sweep one worker carried.
type WorkerStats struct {
	Worker int           `json:"worker"`
	Tasks  int           `json:"tasks"`
	Busy   time.Duration `json:"busy"`
}

// VertexCount returns the number of traversals in the sweep.
func (r *SweepResult) VertexCount() int {
	return len(r.Results)
}

// TotalTraversalTime sums the per-traversal durations. Against
// TotalElapsed it shows the effective parallelism of the run.
func (r *SweepResult) TotalTraversalTime() time.Duration {
	var total time.Duration
	for i := range r.Results {
		total += r.Results[i].Elapsed
	}
	return total
}

// WorkerStats breaks the sweep down per worker. Every worker in the
// pool appears, including idle ones, so under-utilization is visible.
func (r *SweepResult) WorkerStats() []WorkerStats {
	stats := make([]WorkerStats, r.Workers)
	for i := range stats {
		stats[i].Worker = i
	}
	for i := range r.Results {
		w := r.Results[i].Worker
		if w < 0 || w >= len(stats) {
			continue
		}
		stats[w].Tasks++
		stats[w].Busy += r.Results[i].Elapsed
	}
	return stats
}
