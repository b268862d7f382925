package graph

import (
	"fmt"
	"math/rand"
)

// Random returns a random undirected graph with n vertices.
// Each cell of the lower triangle, diagonal included, is drawn with a fair
// coin flip and mirrored into the upper triangle, so the matrix is always
// symmetric and self-loops can occur. Fails with ErrNegativeVertexCount for
// n < 0.
func Random(n int) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeVertexCount, n)
	}
	return buildRandom(n, rand.Int63n), nil
}

// RandomSeeded is Random with a private deterministic source, for
// reproducible graphs in tests and benchmarks.
func RandomSeeded(n int, seed int64) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeVertexCount, n)
	}
	rng := rand.New(rand.NewSource(seed))
	return buildRandom(n, rng.Int63n), nil
}

// buildRandom fills the lower triangle from intn and mirrors it upward.
func buildRandom(n int, intn func(int64) int64) *Graph {
	g := &Graph{n: n, cells: make([]uint8, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if intn(2) == 1 {
				g.cells[i*n+j] = 1
				g.cells[j*n+i] = 1
			}
		}
	}
	return g
}
