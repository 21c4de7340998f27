package tui

import (
	"time"

	"github.com/agbru/concurbench/internal/operation"
)

// fastOps returns the demo batch shrunk to a few milliseconds.
func fastOps() []operation.SlowOperation {
	return []operation.SlowOperation{
		operation.Delay{Label: "op-1", Latency: 15 * time.Millisecond, Value: "1"},
		operation.Delay{Label: "op-2", Latency: 10 * time.Millisecond, Value: "2"},
		operation.Delay{Label: "op-3", Latency: 5 * time.Millisecond, Value: "3"},
	}
}
