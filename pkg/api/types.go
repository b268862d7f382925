package api

import "time"

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// GraphResponse describes the currently loaded graph.
type GraphResponse struct {
	Loaded   bool `json:"loaded"`
	Vertices int  `json:"vertices"`
	Edges    int  `json:"edges"`
}

// NeighborsResponse lists the neighbors of one vertex.
type NeighborsResponse struct {
	Vertex    int   `json:"vertex"`
	Neighbors []int `json:"neighbors"`
	Degree    int   `json:"degree"`
}

// MatrixResponse carries the full adjacency matrix.
type MatrixResponse struct {
	Vertices int     `json:"vertices"`
	Matrix   [][]int `json:"matrix"`
}

// SweepResponse reports one all-vertices sweep. Orders is only
// populated when the request asked for visit orders; on large graphs
// the orders dominate the payload.
type SweepResponse struct {
	RunID          string              `json:"run_id"`
	Vertices       int                 `json:"vertices"`
	Workers        int                 `json:"workers"`
	TotalElapsedMS float64             `json:"total_elapsed_ms"`
	Results        []TraversalResult   `json:"results,omitempty"`
	WorkerStats    []WorkerUtilization `json:"worker_stats"`
}

// TraversalResult is the per-vertex slice of a sweep response.
type TraversalResult struct {
	Start     int     `json:"start"`
	Visited   int     `json:"visited"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Worker    int     `json:"worker"`
	Order     []int   `json:"order,omitempty"`
}

// WorkerUtilization reports how much of a sweep one worker carried.
type WorkerUtilization struct {
	Worker int     `json:"worker"`
	Tasks  int     `json:"tasks"`
	BusyMS float64 `json:"busy_ms"`
}

// SweepRecordResponse is one persisted sweep from the history store.
type SweepRecordResponse struct {
	RunID          string    `json:"run_id"`
	Vertices       int       `json:"vertices"`
	Edges          int       `json:"edges"`
	Workers        int       `json:"workers"`
	TotalElapsedMS float64   `json:"total_elapsed_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// ArchiveRequest names a snapshot in the archive store.
type ArchiveRequest struct {
	Name string `json:"name"`
}

// ArchiveListResponse lists stored snapshots.
type ArchiveListResponse struct {
	Snapshots []string `json:"snapshots"`
}

// TokenRequest trades an API key for a bearer token.
type TokenRequest struct {
	APIKey string `json:"api_key"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
