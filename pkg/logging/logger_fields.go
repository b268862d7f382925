package logging

import "time"

// Common field constructors

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Uint64 creates a uint64 field
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field in milliseconds
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.Milliseconds()}
}

// Error creates an error field
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Any creates a field with any value
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain-specific field constructors

// Component identifies the subsystem emitting the log
func Component(name string) Field {
	return Field{Key: "component", Value: name}
}

// Operation identifies the operation being performed
func Operation(op string) Field {
	return Field{Key: "operation", Value: op}
}

// Vertex creates a vertex index field
func Vertex(v int) Field {
	return Field{Key: "vertex", Value: v}
}

// VertexCount creates a vertex count field
func VertexCount(n int) Field {
	return Field{Key: "vertices", Value: n}
}

// Workers creates a worker pool size field
func Workers(n int) Field {
	return Field{Key: "workers", Value: n}
}

// Worker creates a worker index field
func Worker(id int) Field {
	return Field{Key: "worker", Value: id}
}

// RunID creates a sweep run identifier field
func RunID(id string) Field {
	return Field{Key: "run_id", Value: id}
}

// Latency creates a latency field in milliseconds
func Latency(d time.Duration) Field {
	return Field{Key: "latency_ms", Value: d.Milliseconds()}
}

// Count creates a generic count field
func Count(n int) Field {
	return Field{Key: "count", Value: n}
}

// Path creates a file path field
func Path(path string) Field {
	return Field{Key: "path", Value: path}
}

// Addr creates a network address field
func Addr(addr string) Field {
	return Field{Key: "addr", Value: addr}
}
