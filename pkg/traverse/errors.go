package traverse

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")
	ErrTaskFailed         = errors.New("sweep task failed")
)

// TaskError reports a traversal task that failed inside a sweep.
// A single TaskError fails the whole sweep; partial result sets are
// never returned.
type TaskError struct {
	Vertex int   // start vertex of the failed traversal
	Worker int   // worker that ran the task
	Cause  error // underlying failure (engine error or recovered panic)
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("%v: vertex %d on worker %d: %v", ErrTaskFailed, e.Vertex, e.Worker, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *TaskError) Is(target error) bool {
	if target == nil {
		return false
	}
	return target == ErrTaskFailed || errors.Is(e.Cause, target)
}

// IsTaskFailure returns true if the error came from a failed sweep task.
func IsTaskFailure(err error) bool {
	return errors.Is(err, ErrTaskFailed)
}
