// Package graphio reads and writes adjacency-matrix graphs in a plain
// text format: the first line is the vertex count N, followed by N
// lines of N space-separated {0,1} cells. Files with the .sz extension
// are snappy-compressed streams of the same format.
package graphio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/pools"
)

// maxRowBytes bounds a single matrix row line (~8M vertices).
const maxRowBytes = 16 * 1024 * 1024

// Write serializes g in the text format. The output is canonical:
// reading it back and writing again reproduces it byte for byte.
func Write(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	n := g.VertexCount()

	if _, err := bw.WriteString(strconv.Itoa(n)); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	// A row is n cells separated by single spaces; cell j sits at
	// byte 2*j. Rows start as all zeroes and neighbors flip theirs.
	row := pools.GetBytes(2 * n)
	nbuf := pools.GetInts(n)
	defer func() {
		pools.PutBytes(row)
		pools.PutInts(nbuf)
	}()

	for v := 0; v < n; v++ {
		row = row[:0]
		for j := 0; j < n; j++ {
			if j > 0 {
				row = append(row, ' ')
			}
			row = append(row, '0')
		}

		var err error
		nbuf, err = g.AppendNeighbors(nbuf[:0], v)
		if err != nil {
			return err
		}
		for _, u := range nbuf {
			row[2*u] = '1'
		}

		if _, err := bw.Write(row); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Read parses a graph from the text format. Malformed input fails with
// a FormatError naming the line: a non-integer or negative vertex
// count, a missing or extra row, a row of the wrong width, or a cell
// outside {0,1}.
func Read(r io.Reader) (*graph.Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRowBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, formatError(1, "missing vertex count line")
	}
	countLine := strings.TrimSpace(scanner.Text())
	n, err := strconv.Atoi(countLine)
	if err != nil {
		return nil, formatError(1, "vertex count %q is not an integer", countLine)
	}
	if n < 0 {
		return nil, formatError(1, "vertex count %d is negative", n)
	}

	matrix := make([][]int, n)
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, formatError(i+2, "expected %d matrix rows, found %d", n, i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != n {
			return nil, formatError(i+2, "row has %d cells, want %d", len(fields), n)
		}

		row := make([]int, n)
		for j, field := range fields {
			switch field {
			case "0":
				row[j] = 0
			case "1":
				row[j] = 1
			default:
				return nil, formatError(i+2, "cell %q is not 0 or 1", field)
			}
		}
		matrix[i] = row
	}

	if scanner.Scan() {
		return nil, formatError(n+2, "unexpected content after %d matrix rows", n)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return graph.FromMatrix(matrix)
}
