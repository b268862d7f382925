// Package traverse runs breadth-first traversals over adjacency-matrix
// graphs: a deterministic single-source engine and a concurrent fan-out
// that sweeps every vertex through a bounded worker pool.
package traverse

import (
	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/pools"
)

// BFSFrom returns the breadth-first visitation order from start.
//
// The frontier is a FIFO queue and neighbors are enqueued in ascending
// vertex order, so the output is deterministic: it begins with start,
// contains no duplicates, and its length equals the size of the set
// reachable from start. All traversal state is local to the call, so
// concurrent calls against the same Graph are safe.
func BFSFrom(g *graph.Graph, start int) ([]int, error) {
	if !g.HasVertex(start) {
		return nil, &graph.VertexError{Vertex: start, Count: g.VertexCount(), Cause: graph.ErrUnknownVertex}
	}

	n := g.VertexCount()
	order := make([]int, 0, n)
	reached := make([]bool, n)

	// Queue and neighbor scratch come from the pool; each vertex is
	// enqueued at most once so capacity n never reallocates.
	queue := pools.GetInts(n)
	nbuf := pools.GetInts(n)
	defer func() {
		pools.PutInts(queue)
		pools.PutInts(nbuf)
	}()

	queue = append(queue, start)
	reached[start] = true

	for head := 0; head < len(queue); head++ {
		v := queue[head]
		order = append(order, v)

		var err error
		nbuf, err = g.AppendNeighbors(nbuf[:0], v)
		if err != nil {
			return nil, err
		}
		for _, w := range nbuf {
			if !reached[w] {
				reached[w] = true
				queue = append(queue, w)
			}
		}
	}

	return order, nil
}
