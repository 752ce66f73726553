package kernz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Composition errors. These are only ever returned from pipeline construction.
var (
	ErrEmptyPipeline = errors.New("pipeline has no stages")
	ErrNotKernel     = errors.New("not a kernel")
	ErrTypeMismatch  = errors.New("stage types do not line up")
)

// Execution errors.
var (
	// ErrFailed matches every execution failure. It is the opaque success/failure signal.
	ErrFailed = errors.New("pipeline failed")

	ErrNoResult  = errors.New("kernel produced no result")
	ErrRejected  = errors.New("input rejected")
	ErrInputType = errors.New("input does not match the declared input type")
	ErrPanic     = errors.New("kernel panicked")
)

// CompositionError describes why a sequence of stages could not be composed.
// Index is the position of the offending stage; for ErrTypeMismatch it is the
// right-hand stage of the mismatched pair.
type CompositionError struct {
	Err      error
	Left     Signature
	Right    Signature
	Pipeline Identity
	Index    int
}

// Error implements the error interface.
func (e *CompositionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTypeMismatch):
		return fmt.Sprintf("compose %s: stage %d output %s does not match stage %d input %s: %v",
			e.Pipeline.Name(), e.Index-1, typeName(e.Left.Output), e.Index, typeName(e.Right.Input), e.Err)
	case errors.Is(e.Err, ErrEmptyPipeline):
		return fmt.Sprintf("compose %s: %v", e.Pipeline.Name(), e.Err)
	default:
		return fmt.Sprintf("compose %s: stage %d: %v", e.Pipeline.Name(), e.Index, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *CompositionError) Unwrap() error {
	return e.Err
}

// Error provides context about where and when a run failed.
//
// Path lists identities from the outermost pipeline down to the failing kernel.
// Stage is the zero-based position of the failing stage in the innermost pipeline,
// or -1 when the failure happened before any stage ran.
type Error struct {
	Timestamp time.Time
	Err       error
	Path      []Identity
	Duration  time.Duration
	Stage     int
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	names := make([]string, len(e.Path))
	for i, id := range e.Path {
		names[i] = id.Name()
	}
	location := strings.Join(names, " -> ")

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", location, e.Duration, e.Err)
}

// Unwrap exposes both ErrFailed and the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{ErrFailed, e.Err}
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// newError builds an Error for a failure raised directly by the kernel identified by id.
func newError(id Identity, err error, start, now time.Time) *Error {
	return &Error{
		Path:      []Identity{id},
		Stage:     -1,
		Err:       err,
		Timestamp: now,
		Duration:  now.Sub(start),
		Timeout:   errors.Is(err, context.DeadlineExceeded),
		Canceled:  errors.Is(err, context.Canceled),
	}
}

// extend returns a copy of inner with prefix prepended to its path. inner is never
// modified, since kernels may return the same *Error value from several runs. When
// cause wraps inner rather than being inner itself, cause becomes the copy's Err so
// that context added by the wrapping kernel is kept.
func extend(inner *Error, cause error, prefix ...Identity) *Error {
	e := *inner
	e.Path = append(slices.Clone(prefix), inner.Path...)
	if cause != error(inner) {
		e.Err = cause
	}
	return &e
}
