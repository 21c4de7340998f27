package harness

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/operation"
)

// runWithGuard runs a blocking strategy and fails the test if the run does
// not return within the guard duration.
func runWithGuard(t *testing.T, h *Harness, kind Kind, opts RunOptions, ops []operation.SlowOperation) (RunResult, error) {
	t.Helper()
	type outcome struct {
		res RunResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		out, err := h.RunKind(context.Background(), kind, opts, ops)
		done <- outcome{out.Result, err}
	}()
	select {
	case o := <-done:
		return o.res, o.err
	case <-time.After(5 * time.Second):
		t.Fatalf("%v run did not complete (possible deadlock)", kind)
		return RunResult{}, nil
	}
}

func TestStrategies_IndexStability(t *testing.T) {
	t.Parallel()
	// The last operation finishes first, the first finishes last.
	ops := delays(60*time.Millisecond, 30*time.Millisecond, 5*time.Millisecond)

	for _, kind := range blockingKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			res, err := runWithGuard(t, New(), kind, RunOptions{Options: Options{PoolSize: 3}}, ops)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := res.Values(); !slices.Equal(got, []string{"1", "2", "3"}) {
				t.Errorf("values = %v, want [1 2 3]", got)
			}
			if res.Joined() != "123" {
				t.Errorf("Joined() = %q, want 123", res.Joined())
			}
			if !res.OK() {
				t.Error("OK() should be true for a clean run")
			}
			if res.Strategy() != kind {
				t.Errorf("Strategy() = %v, want %v", res.Strategy(), kind)
			}
			if res.RunID() == "" {
				t.Error("RunID() should not be empty")
			}
		})
	}
}

func TestStrategies_Timing(t *testing.T) {
	t.Parallel()
	latencies := []time.Duration{150 * time.Millisecond, 100 * time.Millisecond, 50 * time.Millisecond}
	sum := 300 * time.Millisecond
	longest := 150 * time.Millisecond

	tests := []struct {
		kind       Kind
		poolSize   int
		concurrent bool
	}{
		{Sequential, 0, false},
		{ThreadPerTask, 0, true},
		{WorkerPool, 3, true},
		{WorkerPool, 1, false},
		{StructuredJoin, 0, true},
	}

	for _, tt := range tests {
		name := tt.kind.String()
		if tt.kind == WorkerPool {
			name += "-" + string(rune('0'+tt.poolSize))
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res, err := runWithGuard(t, New(), tt.kind, RunOptions{Options: Options{PoolSize: tt.poolSize}}, delays(latencies...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			elapsed := res.Elapsed()
			if tt.concurrent {
				if elapsed < longest {
					t.Errorf("elapsed %v shorter than the longest operation %v", elapsed, longest)
				}
				if elapsed >= sum-50*time.Millisecond {
					t.Errorf("elapsed %v close to the sum %v: operations did not overlap", elapsed, sum)
				}
				return
			}
			if elapsed < sum {
				t.Errorf("elapsed %v shorter than the sum of latencies %v", elapsed, sum)
			}
			if res.ElapsedMilliseconds() < sum.Milliseconds() {
				t.Errorf("ElapsedMilliseconds() = %d, want >= %d", res.ElapsedMilliseconds(), sum.Milliseconds())
			}
		})
	}
}

func TestWorkerPool_Capacity(t *testing.T) {
	t.Parallel()
	for _, size := range []int{0, -1} {
		_, err := NewStrategy(WorkerPool, Options{PoolSize: size})
		if !errors.Is(err, apperrors.ErrPoolCapacityExhausted) {
			t.Errorf("size %d: expected ErrPoolCapacityExhausted, got %v", size, err)
		}
	}
	_, err := New().RunKind(context.Background(), WorkerPool, RunOptions{}, delays(time.Millisecond))
	if !errors.Is(err, apperrors.ErrPoolCapacityExhausted) {
		t.Errorf("RunKind with zero pool size: expected ErrPoolCapacityExhausted, got %v", err)
	}
}

func TestWorkerPool_WorkerIDs(t *testing.T) {
	t.Parallel()
	res, err := runWithGuard(t, New(), WorkerPool, RunOptions{Options: Options{PoolSize: 2}},
		delays(10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range 4 {
		if w := res.Worker(i); w < 1 || w > 2 {
			t.Errorf("operation %d ran on worker %d, want 1 or 2", i, w)
		}
	}
}

func TestStrategies_Failure(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	tests := []struct {
		kind         Kind
		policy       FailurePolicy
		wantFailures []int
		wantValues   bool
		// earlyReturn expects the join to return before the slow first
		// operation completes.
		earlyReturn bool
	}{
		{Sequential, FailFast, []int{1}, false, false},
		{ThreadPerTask, FailFast, []int{1}, true, false},
		{WorkerPool, FailFast, []int{1}, true, false},
		{StructuredJoin, CollectAll, []int{1}, true, false},
		{StructuredJoin, FailFast, []int{1}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.policy.String(), func(t *testing.T) {
			t.Parallel()
			first := 20 * time.Millisecond
			if tt.earlyReturn {
				first = 300 * time.Millisecond
			}
			ops := operation.WithFailure(delays(first, 10*time.Millisecond, 5*time.Millisecond), 1, boom)
			res, err := runWithGuard(t, New(), tt.kind, RunOptions{Options: Options{PoolSize: 2, Policy: tt.policy}}, ops)

			var runErr *apperrors.RunError
			if !errors.As(err, &runErr) {
				t.Fatalf("expected RunError, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("error chain should contain the cause, got %v", err)
			}
			var indexes []int
			for _, f := range runErr.Failures {
				indexes = append(indexes, f.Index)
			}
			if !slices.Equal(indexes, tt.wantFailures) {
				t.Errorf("failed indexes = %v, want %v", indexes, tt.wantFailures)
			}
			if len(res.Failures()) != len(tt.wantFailures) || res.Failures()[0].Name != "op-2" {
				t.Errorf("RunResult failures = %+v", res.Failures())
			}
			if !errors.Is(res.Err(), boom) {
				t.Errorf("RunResult.Err() = %v", res.Err())
			}
			if tt.earlyReturn {
				if res.Elapsed() >= first {
					t.Errorf("fail-fast join waited %v for the slow operation", res.Elapsed())
				}
				if res.Completed(0) || res.Value(0) != "" {
					t.Error("the slow operation should still be running at the join")
				}
				if res.Value(2) != "3" || !res.Completed(2) {
					t.Errorf("values = %v, want the finished operation kept", res.Values())
				}
				return
			}
			if tt.wantValues {
				if res.Value(0) != "1" || res.Value(1) != "" || res.Value(2) != "3" {
					t.Errorf("values = %v, want [1  3]", res.Values())
				}
				if res.Completed(1) || !res.Completed(0) {
					t.Error("Completed() does not reflect the failure")
				}
			} else if res.Values() != nil {
				t.Errorf("sequential failure must not assemble values, got %v", res.Values())
			}
		})
	}
}

func TestSequential_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	ops := operation.WithFailure(delays(time.Millisecond, time.Millisecond, time.Millisecond), 0, nil)
	_, err := runWithGuard(t, New(WithObserver(rec)), Sequential, RunOptions{}, ops)
	if !errors.Is(err, operation.ErrInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if _, started, _, _ := rec.counts(); started != 1 {
		t.Errorf("expected only the failing operation to start, %d started", started)
	}
}

func TestStrategies_AllFailuresSurfaced(t *testing.T) {
	t.Parallel()
	for _, kind := range []Kind{ThreadPerTask, WorkerPool} {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			ops := delays(5*time.Millisecond, 5*time.Millisecond, 5*time.Millisecond)
			ops = operation.WithFailure(ops, 0, nil)
			ops = operation.WithFailure(ops, 2, nil)
			_, err := runWithGuard(t, New(), kind, RunOptions{Options: Options{PoolSize: 1}}, ops)
			var runErr *apperrors.RunError
			if !errors.As(err, &runErr) {
				t.Fatalf("expected RunError, got %v", err)
			}
			if len(runErr.Failures) != 2 || runErr.Failures[0].Index != 0 || runErr.Failures[1].Index != 2 {
				t.Errorf("unexpected failures: %v", runErr)
			}
		})
	}
}

func TestStrategies_PanicIsReported(t *testing.T) {
	t.Parallel()
	panicking := operation.Func{Label: "bad", Fn: func(context.Context) (string, error) { panic("kaboom") }}

	for _, kind := range blockingKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			ops := []operation.SlowOperation{delays(time.Millisecond)[0], panicking}
			_, err := runWithGuard(t, New(), kind, RunOptions{Options: Options{PoolSize: 1}}, ops)
			var panicErr apperrors.PanicError
			if !errors.As(err, &panicErr) {
				t.Fatalf("expected PanicError in chain, got %v", err)
			}
			if panicErr.Value != "kaboom" {
				t.Errorf("panic value = %v", panicErr.Value)
			}
		})
	}
}

func TestStrategies_Timeout(t *testing.T) {
	t.Parallel()
	for _, kind := range blockingKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			ops := delays(5*time.Millisecond, 2*time.Second)
			opts := RunOptions{Options: Options{PoolSize: 2}, Timeout: 100 * time.Millisecond}
			start := time.Now()
			res, err := runWithGuard(t, New(), kind, opts, ops)
			if time.Since(start) > time.Second {
				t.Errorf("timeout not honoured, run took %v", time.Since(start))
			}
			var timeoutErr apperrors.TimeoutError
			if !errors.As(err, &timeoutErr) {
				t.Fatalf("expected TimeoutError, got %v", err)
			}
			if timeoutErr.Operation != kind.String() {
				t.Errorf("timeout names %q, want %q", timeoutErr.Operation, kind.String())
			}
			if kind != Sequential && res.Value(0) != "1" {
				t.Errorf("operation finished in time should be kept, values = %v", res.Values())
			}
		})
	}
}

func TestStrategies_Cancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, kind := range blockingKinds() {
		_, err := New().RunKind(ctx, kind, RunOptions{Options: Options{PoolSize: 1}}, delays(time.Second))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%v: expected context.Canceled, got %v", kind, err)
		}
	}
}

func TestHarness_EmptyBatch(t *testing.T) {
	t.Parallel()
	h := New()
	for _, kind := range Kinds() {
		_, err := h.RunKind(context.Background(), kind, RunOptions{Options: Options{PoolSize: 1}}, nil)
		var valErr apperrors.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("%v: expected ValidationError, got %v", kind, err)
		}
	}
}

func TestHarness_Idempotence(t *testing.T) {
	t.Parallel()
	h := New()
	ops := delays(10*time.Millisecond, 5*time.Millisecond)
	for _, kind := range blockingKinds() {
		first, err1 := runWithGuard(t, h, kind, RunOptions{Options: Options{PoolSize: 2}}, ops)
		second, err2 := runWithGuard(t, h, kind, RunOptions{Options: Options{PoolSize: 2}}, ops)
		if err1 != nil || err2 != nil {
			t.Fatalf("%v: unexpected errors %v, %v", kind, err1, err2)
		}
		if first.RunID() == second.RunID() {
			t.Errorf("%v: runs share an id", kind)
		}
		values := first.Values()
		values[0] = "mutated"
		if first.Value(0) != "1" || second.Value(0) != "1" {
			t.Errorf("%v: results share state", kind)
		}
	}
}

func TestHarness_ConcurrentRuns(t *testing.T) {
	t.Parallel()
	h := New()
	errs := make(chan error, len(blockingKinds()))
	for _, kind := range blockingKinds() {
		go func() {
			out, err := h.RunKind(context.Background(), kind, RunOptions{Options: Options{PoolSize: 2}}, delays(20*time.Millisecond, 10*time.Millisecond))
			if err == nil && out.Result.Joined() != "12" {
				err = errors.New(kind.String() + " assembled " + out.Result.Joined())
			}
			errs <- err
		}()
	}
	for range blockingKinds() {
		select {
		case err := <-errs:
			if err != nil {
				t.Error(err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent runs did not complete")
		}
	}
}

func TestThreadPerTask_DistinctThreads(t *testing.T) {
	t.Parallel()
	res, err := runWithGuard(t, New(), ThreadPerTask, RunOptions{}, delays(30*time.Millisecond, 30*time.Millisecond, 30*time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Worker(0) == 0 {
		t.Skip("thread ids not available on this platform")
	}
	seen := map[int]bool{}
	for i := range 3 {
		seen[res.Worker(i)] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct OS threads, got %d", len(seen))
	}
}

func TestNewResult(t *testing.T) {
	t.Parallel()
	values := []string{"a", "b"}
	res := NewResult(WorkerPool, values, 42*time.Millisecond)
	values[0] = "z"
	if res.Joined() != "ab" || !res.OK() || res.ElapsedMilliseconds() != 42 || res.Strategy() != WorkerPool {
		t.Errorf("unexpected result: %q ok=%v ms=%d", res.Joined(), res.OK(), res.ElapsedMilliseconds())
	}
	if res.Value(5) != "" || res.Completed(-1) || res.Worker(9) != 0 {
		t.Error("out of range accessors should return zero values")
	}
}
