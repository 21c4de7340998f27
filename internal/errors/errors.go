package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates a join timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between strategies.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the run was canceled (e.g., SIGINT).
)

var (
	// ErrPoolCapacityExhausted is returned when a worker pool is configured
	// with fewer than one worker and could therefore never drain its queue.
	ErrPoolCapacityExhausted = errors.New("worker pool capacity exhausted: pool size must be at least 1")

	// ErrHandleAlreadyConsumed is returned when a fire-and-forget handle is
	// awaited more than once.
	ErrHandleAlreadyConsumed = errors.New("handle already consumed")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// OperationError records the failure of a single slow operation. It carries
// the submission index so a failed run can report which operation failed and
// with what cause.
type OperationError struct {
	// Index is the submission index of the failed operation.
	Index int
	// Name is the operation's display name.
	Name string
	// Cause is the underlying error returned (or panicked) by the operation.
	Cause error
}

// Error returns a message identifying the failed operation and its cause.
func (e *OperationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("operation %d failed: %v", e.Index, e.Cause)
	}
	return fmt.Sprintf("operation %d (%s) failed: %v", e.Index, e.Name, e.Cause)
}

// Unwrap returns the original cause, allowing for error chain inspection.
func (e *OperationError) Unwrap() error { return e.Cause }

// RunError aggregates every operation failure observed by one strategy run.
// Failures are ordered by submission index.
type RunError struct {
	// Strategy is the name of the strategy that produced the failures.
	Strategy string
	// Failures holds one entry per failed operation.
	Failures []*OperationError
}

// Error returns a summary of all failures.
func (e *RunError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("%s: %v", e.Strategy, e.Failures[0])
	}
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%s: %d operations failed: %s", e.Strategy, len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *RunError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// TimeoutError represents a join that did not complete before its deadline.
// It captures the join that timed out, the limit that was exceeded and how
// many operations were still pending.
type TimeoutError struct {
	// Operation is the name of the join that timed out.
	Operation string
	// Limit is the duration after which the join was considered timed out.
	Limit time.Duration
	// Pending is the number of operations that had not signaled completion.
	Pending int
}

// Error returns a formatted message describing the timeout.
//
// Returns:
//   - string: The error message string.
func (e TimeoutError) Error() string {
	if e.Pending > 0 {
		return fmt.Sprintf("operation %q timed out after %s (%d pending)", e.Operation, e.Limit, e.Pending)
	}
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Unwrap lets errors.Is match context.DeadlineExceeded.
func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
//
// Returns:
//   - string: The error message string.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// PanicError wraps a value recovered from a panicking operation.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
