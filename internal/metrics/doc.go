// Package metrics exposes harness lifecycle events as Prometheus metrics and
// samples Go runtime state (heap, goroutines, OS threads) for the dashboard.
package metrics
