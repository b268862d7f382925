package traverse

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/timing"
)

// FromAllVertices runs a timed BFS from every vertex of g concurrently,
// bounded by a pool of exactly the given number of workers.
//
// One task per vertex is submitted in ascending order; each records the
// worker that ran it and its own elapsed time, and the call blocks until
// all have finished. Results come back ordered by start vertex no matter
// which worker finished when. The pool is torn down before returning,
// on success and on failure alike.
//
// A failing task fails the whole sweep with a TaskError; partial result
// sets are never returned. There is no cancellation or timeout: a hung
// traversal blocks the sweep. Callers that need a deadline must apply
// it around this call.
//
// An empty graph is a valid sweep: zero results, a still-validated
// worker count, and a pool that is created and torn down as usual.
func FromAllVertices(g *graph.Graph, workers int) (*SweepResult, error) {
	pool, err := NewWorkerPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	n := g.VertexCount()
	results := make([]VertexResult, n)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	// Each task writes only its own slot, so submission order survives
	// any completion order without further locking.
	run := timing.Measure(func() []VertexResult {
		for v := 0; v < n; v++ {
			v := v
			wg.Add(1)
			ok := pool.Submit(func(workerID int) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						fail(&TaskError{Vertex: v, Worker: workerID, Cause: fmt.Errorf("panic: %v", r)})
					}
				}()

				timed, err := timing.MeasureErr(func() ([]int, error) {
					return BFSFrom(g, v)
				})
				if err != nil {
					fail(&TaskError{Vertex: v, Worker: workerID, Cause: err})
					return
				}

				results[v] = VertexResult{
					Start:   v,
					Order:   timed.Value,
					Elapsed: timed.Elapsed,
					Worker:  workerID,
				}
			})
			if !ok {
				wg.Done()
				fail(&TaskError{Vertex: v, Worker: -1, Cause: fmt.Errorf("pool rejected task")})
			}
		}
		wg.Wait()
		return results
	})

	mu.Lock()
	err = firstErr
	mu.Unlock()
	if err != nil {
		return nil, err
	}

	return &SweepResult{
		RunID:        uuid.NewString(),
		Results:      run.Value,
		TotalElapsed: run.Elapsed,
		Workers:      workers,
	}, nil
}
