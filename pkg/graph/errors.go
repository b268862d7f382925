package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidMatrix       = errors.New("invalid adjacency matrix")
	ErrUnknownVertex       = errors.New("unknown vertex")
	ErrNegativeVertexCount = errors.New("vertex count must not be negative")
)

// MatrixError describes why an adjacency matrix was rejected at construction.
type MatrixError struct {
	Row   int   // offending row index
	Col   int   // offending column index (width errors leave this at 0)
	Want  int   // expected row width
	Got   int   // actual row width
	Value int   // offending cell value
	Cause error // underlying sentinel, always ErrInvalidMatrix
}

// Error implements the error interface.
func (e *MatrixError) Error() string {
	if e.Got != e.Want {
		return fmt.Sprintf("%v: row %d has %d columns, want %d", e.Cause, e.Row, e.Got, e.Want)
	}
	return fmt.Sprintf("%v: cell (%d,%d) is %d, want 0 or 1", e.Cause, e.Row, e.Col, e.Value)
}

// Unwrap returns the underlying cause for error chain support.
func (e *MatrixError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *MatrixError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// VertexError reports a query against a vertex outside [0, VertexCount).
type VertexError struct {
	Vertex int   // the out-of-range vertex
	Count  int   // vertex count of the graph queried
	Cause  error // underlying sentinel, always ErrUnknownVertex
}

// Error implements the error interface.
func (e *VertexError) Error() string {
	return fmt.Sprintf("%v: vertex %d not in [0,%d)", e.Cause, e.Vertex, e.Count)
}

// Unwrap returns the underlying cause for error chain support.
func (e *VertexError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *VertexError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// unknownVertex builds the VertexError for v against a graph of n vertices.
func unknownVertex(v, n int) error {
	return &VertexError{Vertex: v, Count: n, Cause: ErrUnknownVertex}
}

// IsUnknownVertex returns true if the error is an unknown vertex error.
func IsUnknownVertex(err error) bool {
	return errors.Is(err, ErrUnknownVertex)
}

// IsInvalidMatrix returns true if the error is a matrix validation error.
func IsInvalidMatrix(err error) bool {
	return errors.Is(err, ErrInvalidMatrix)
}
