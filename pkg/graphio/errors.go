package graphio

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is the sentinel for any malformed graph file.
var ErrInvalidFormat = errors.New("invalid graph format")

// FormatError describes why parsing a graph file failed, naming the
// offending line (1-based, as an editor would count it).
type FormatError struct {
	Line   int    // offending line number
	Reason string // what was wrong with it
	Cause  error  // underlying sentinel, always ErrInvalidFormat
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: line %d: %s", e.Cause, e.Line, e.Reason)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *FormatError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// formatError builds the FormatError for a line with the given reason.
func formatError(line int, format string, args ...any) error {
	return &FormatError{
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
		Cause:  ErrInvalidFormat,
	}
}

// IsInvalidFormat returns true if the error is a graph format error.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}
