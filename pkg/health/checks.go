package health

import (
	"fmt"
	"runtime"
)

// GraphCheck reports whether a graph is loaded and how big it is. A
// server with no graph is degraded rather than unhealthy: it still
// accepts loads.
func GraphCheck(state func() (vertices, edges int, loaded bool)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "graph",
			Details: make(map[string]any),
		}

		vertices, edges, loaded := state()

		check.Details["loaded"] = loaded
		check.Details["vertices"] = vertices
		check.Details["edges"] = edges

		if !loaded {
			check.Status = StatusDegraded
			check.Message = "No graph loaded"
		} else {
			check.Status = StatusHealthy
			check.Message = fmt.Sprintf("%d vertices, %d edges", vertices, edges)
		}

		return check
	}
}

// DatabaseCheck reports connectivity to the sweep-history store.
func DatabaseCheck(ping func() error) CheckFunc {
	return func() Check {
		check := Check{
			Name: "database",
		}

		if err := ping(); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "Connected"
		}

		return check
	}
}

// GoroutineCheck watches the goroutine count. Sweeps spin up bounded
// worker pools, so a runaway count means a pool is leaking.
func GoroutineCheck(limit int) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "goroutines",
			Details: make(map[string]any),
		}

		count := runtime.NumGoroutine()
		check.Details["count"] = count
		check.Details["limit"] = limit

		switch {
		case count > limit*2:
			check.Status = StatusUnhealthy
			check.Message = "Goroutine count far above limit"
		case count > limit:
			check.Status = StatusDegraded
			check.Message = "Goroutine count above limit"
		default:
			check.Status = StatusHealthy
			check.Message = "Goroutine count normal"
		}

		return check
	}
}

// MemoryCheck watches heap usage relative to memory obtained from the OS.
func MemoryCheck(usage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := usage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		if sys > 0 && float64(alloc)/float64(sys)*100 > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}
