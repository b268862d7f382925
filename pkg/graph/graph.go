// Package graph holds the dense adjacency-matrix graph shared by every
// traversal. A Graph is immutable once constructed and safe for concurrent
// reads without locking.
package graph

// Graph is an immutable graph backed by a square {0,1} adjacency matrix.
// Vertices are identified by their row index, a contiguous range [0, N).
// Cell (i,j) == 1 means an edge from vertex i to vertex j.
type Graph struct {
	n     int
	cells []uint8 // row-major n*n matrix
}

// Empty returns a graph with no vertices.
func Empty() *Graph {
	return &Graph{}
}

// FromMatrix builds a Graph from a square adjacency matrix.
// The matrix must be square and every cell must be 0 or 1; anything else
// fails with a MatrixError wrapping ErrInvalidMatrix. The input is copied,
// so callers may reuse or mutate it afterwards.
func FromMatrix(matrix [][]int) (*Graph, error) {
	n := len(matrix)
	cells := make([]uint8, n*n)
	for i, row := range matrix {
		if len(row) != n {
			return nil, &MatrixError{Row: i, Want: n, Got: len(row), Cause: ErrInvalidMatrix}
		}
		for j, cell := range row {
			if cell != 0 && cell != 1 {
				return nil, &MatrixError{Row: i, Col: j, Want: n, Got: n, Value: cell, Cause: ErrInvalidMatrix}
			}
			cells[i*n+j] = uint8(cell)
		}
	}
	return &Graph{n: n, cells: cells}, nil
}

// VertexCount returns the number of vertices; 0 for an empty graph.
func (g *Graph) VertexCount() int {
	return g.n
}

// HasVertex returns true iff v is a valid vertex of g.
func (g *Graph) HasVertex(v int) bool {
	return v >= 0 && v < g.n
}

// HasEdge reports whether an edge from v1 to v2 exists.
// Fails with ErrUnknownVertex if either endpoint is out of range.
func (g *Graph) HasEdge(v1, v2 int) (bool, error) {
	if !g.HasVertex(v1) {
		return false, unknownVertex(v1, g.n)
	}
	if !g.HasVertex(v2) {
		return false, unknownVertex(v2, g.n)
	}
	return g.cells[v1*g.n+v2] == 1, nil
}

// Neighbors returns the vertices v has an edge to, in ascending order.
// A vertex with a self-loop lists itself. Fails with ErrUnknownVertex if v
// is out of range.
func (g *Graph) Neighbors(v int) ([]int, error) {
	return g.AppendNeighbors(nil, v)
}

// AppendNeighbors appends the neighbors of v to dst and returns the extended
// slice. It reports the same errors as Neighbors but lets hot paths reuse a
// scratch buffer instead of allocating per call.
func (g *Graph) AppendNeighbors(dst []int, v int) ([]int, error) {
	if !g.HasVertex(v) {
		return dst, unknownVertex(v, g.n)
	}
	row := g.cells[v*g.n : (v+1)*g.n]
	for w, cell := range row {
		if cell == 1 {
			dst = append(dst, w)
		}
	}
	return dst, nil
}

// Degree returns the number of outgoing edges of v.
// Fails with ErrUnknownVertex if v is out of range.
func (g *Graph) Degree(v int) (int, error) {
	if !g.HasVertex(v) {
		return 0, unknownVertex(v, g.n)
	}
	deg := 0
	for _, cell := range g.cells[v*g.n : (v+1)*g.n] {
		if cell == 1 {
			deg++
		}
	}
	return deg, nil
}

// Vertices returns all vertex ids in ascending order.
func (g *Graph) Vertices() []int {
	vs := make([]int, g.n)
	for i := range vs {
		vs[i] = i
	}
	return vs
}

// EdgeCount returns the number of 1-cells in the matrix, i.e. the number of
// directed edges (an undirected edge counts twice, a self-loop once).
func (g *Graph) EdgeCount() int {
	count := 0
	for _, cell := range g.cells {
		if cell == 1 {
			count++
		}
	}
	return count
}

// Matrix returns a deep copy of the adjacency matrix.
func (g *Graph) Matrix() [][]int {
	matrix := make([][]int, g.n)
	for i := range matrix {
		row := make([]int, g.n)
		for j := range row {
			row[j] = int(g.cells[i*g.n+j])
		}
		matrix[i] = row
	}
	return matrix
}

// Equal reports whether g and other have identical vertex counts and
// cell-by-cell identical adjacency matrices.
func (g *Graph) Equal(other *Graph) bool {
	if other == nil || g.n != other.n {
		return false
	}
	for i, cell := range g.cells {
		if cell != other.cells[i] {
			return false
		}
	}
	return true
}
