// Package logging provides a unified logging interface for the concurrency
// harness. It abstracts the underlying logging implementation, allowing
// consistent structured logging across components while supporting multiple
// backends (zerolog by default, the standard library log package for tests
// and embedding).
package logging
