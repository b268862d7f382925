// Package timing provides a small harness for measuring how long
// operations take. Results pair the operation's value with its wall-clock
// duration so callers can report both without threading timestamps around.
package timing

import "time"

// Timed pairs an operation's result with the wall-clock time it took.
type Timed[T any] struct {
	Value   T
	Elapsed time.Duration
}

// Measure runs fn and returns its result together with the elapsed time.
func Measure[T any](fn func() T) Timed[T] {
	start := time.Now()
	value := fn()
	return Timed[T]{
		Value:   value,
		Elapsed: time.Since(start),
	}
}

// MeasureErr runs fn and returns its result together with the elapsed time.
// The duration is reported whether or not fn returned an error.
func MeasureErr[T any](fn func() (T, error)) (Timed[T], error) {
	start := time.Now()
	value, err := fn()
	return Timed[T]{
		Value:   value,
		Elapsed: time.Since(start),
	}, err
}

// Stopwatch measures elapsed time from a fixed starting point.
// The zero value is not usable; call Start.
type Stopwatch struct {
	start time.Time
}

// Start returns a running stopwatch.
func Start() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// Elapsed returns the time since the stopwatch was started.
func (s Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}
