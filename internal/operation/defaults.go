package operation

import (
	"errors"
	"fmt"
	"time"
)

// ErrInjected is the cause used for failures injected with WithFailure when
// no explicit error is supplied.
var ErrInjected = errors.New("injected failure")

// Base latencies of the demo operations, before scaling.
var defaultLatencies = []time.Duration{
	5000 * time.Millisecond,
	3000 * time.Millisecond,
	2000 * time.Millisecond,
}

// DefaultSet returns the three demo operations: 5s yielding "1", 3s yielding
// "2" and 2s yielding "3". Latencies are multiplied by scale; a scale of zero
// or less is treated as 1.
//
// Parameters:
//   - scale: The latency multiplier.
//
// Returns:
//   - []SlowOperation: The operations in submission order.
func DefaultSet(scale float64) []SlowOperation {
	if scale <= 0 {
		scale = 1
	}
	ops := make([]SlowOperation, len(defaultLatencies))
	for i, base := range defaultLatencies {
		ops[i] = Delay{
			Label:   fmt.Sprintf("op-%d", i+1),
			Latency: time.Duration(float64(base) * scale),
			Value:   fmt.Sprintf("%d", i+1),
		}
	}
	return ops
}

// WithFailure returns a copy of ops in which the operation at index is
// replaced by a Failing operation with the same name and latency. An index
// outside the slice returns an unmodified copy. A nil err uses ErrInjected.
func WithFailure(ops []SlowOperation, index int, err error) []SlowOperation {
	out := make([]SlowOperation, len(ops))
	copy(out, ops)
	if index < 0 || index >= len(out) {
		return out
	}
	if err == nil {
		err = ErrInjected
	}
	var latency time.Duration
	if d, ok := out[index].(Delay); ok {
		latency = d.Latency
	}
	out[index] = Failing{Label: out[index].Name(), Latency: latency, Err: err}
	return out
}

// TotalLatency returns the sum of the known latencies of ops, which is the
// expected elapsed time of a sequential run.
func TotalLatency(ops []SlowOperation) time.Duration {
	var total time.Duration
	for _, op := range ops {
		total += LatencyOf(op)
	}
	return total
}

// MaxLatency returns the largest known latency of ops, the lower bound on a
// fully concurrent run.
func MaxLatency(ops []SlowOperation) time.Duration {
	var longest time.Duration
	for _, op := range ops {
		longest = max(longest, LatencyOf(op))
	}
	return longest
}

// LatencyOf returns the configured latency of op, or 0 when op does not
// declare one.
func LatencyOf(op SlowOperation) time.Duration {
	switch v := op.(type) {
	case Delay:
		return v.Latency
	case Failing:
		return v.Latency
	case *logged:
		return LatencyOf(v.op)
	default:
		return 0
	}
}
