// Package apperrors holds the error taxonomy of a strategy run and the mapping
// from errors to process exit codes.
//
// A run fails in one of four ways. An operation returns an error or panics
// (OperationError, collected into a RunError). A pool is built with no workers
// (ErrPoolCapacityExhausted). A join outlives its deadline (TimeoutError). A
// fire-and-forget handle is awaited twice (ErrHandleAlreadyConsumed).
// Everything else the user can get wrong on the command line is a ConfigError.
//
// Wrapped causes stay reachable: every type implements Unwrap, so callers
// test with errors.Is and errors.As rather than comparing messages.
package apperrors
