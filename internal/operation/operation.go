// Package operation defines the slow operations driven by the concurrency
// harness. An operation is an opaque unit of work with bounded latency that
// yields a string value or fails; the harness never inspects what it computes.
package operation

//go:generate mockgen -destination=mocks/mock_operation.go -package=mocks github.com/agbru/concurbench/internal/operation SlowOperation

import (
	"context"
	"time"
)

// SlowOperation is a unit of work the harness schedules. Implementations must
// be safe to call from any goroutine and should return promptly with
// ctx.Err() once ctx is done.
type SlowOperation interface {
	// Name returns a short display name used in logs and error reports.
	Name() string
	// Compute performs the work and returns its value.
	Compute(ctx context.Context) (string, error)
}

// Func adapts a plain function to SlowOperation.
type Func struct {
	Label string
	Fn    func(ctx context.Context) (string, error)
}

// Name implements SlowOperation.
func (f Func) Name() string { return f.Label }

// Compute implements SlowOperation.
func (f Func) Compute(ctx context.Context) (string, error) { return f.Fn(ctx) }

// Delay waits for Latency and then returns Value.
type Delay struct {
	Label   string
	Latency time.Duration
	Value   string
}

// Name implements SlowOperation.
func (d Delay) Name() string { return d.Label }

// Compute implements SlowOperation. It returns ctx.Err() if ctx ends before
// the latency has elapsed.
func (d Delay) Compute(ctx context.Context) (string, error) {
	if err := sleep(ctx, d.Latency); err != nil {
		return "", err
	}
	return d.Value, nil
}

// Failing waits for Latency and then fails with Err.
type Failing struct {
	Label   string
	Latency time.Duration
	Err     error
}

// Name implements SlowOperation.
func (f Failing) Name() string { return f.Label }

// Compute implements SlowOperation.
func (f Failing) Compute(ctx context.Context) (string, error) {
	if err := sleep(ctx, f.Latency); err != nil {
		return "", err
	}
	return "", f.Err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
