package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

var errDisk = errors.New("disk on fire")

func TestConfigError(t *testing.T) {
	t.Parallel()
	err := NewConfigError("pool size must be at least %d, got %d", 1, 0)
	if err.Error() != "pool size must be at least 1, got 0" {
		t.Errorf("message = %q", err.Error())
	}
	var cfgErr ConfigError
	if !errors.As(fmt.Errorf("resolving flags: %w", err), &cfgErr) {
		t.Fatal("a wrapped ConfigError should still match errors.As")
	}
	if cfgErr.Message != err.Error() {
		t.Errorf("Message = %q", cfgErr.Message)
	}
}

func TestOperationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"named", &OperationError{Index: 1, Name: "op-2", Cause: errDisk}, "operation 1 (op-2) failed: disk on fire"},
		{"anonymous", &OperationError{Index: 0, Cause: errDisk}, "operation 0 failed: disk on fire"},
		{"panicked", &OperationError{Index: 2, Name: "op-3", Cause: PanicError{Value: "boom"}}, "operation 2 (op-3) failed: panic: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, tt.err.Cause) {
				t.Error("the cause should be reachable through Unwrap")
			}
		})
	}
}

func TestRunError(t *testing.T) {
	t.Parallel()
	first := &OperationError{Index: 0, Name: "op-1", Cause: errDisk}
	third := &OperationError{Index: 2, Name: "op-3", Cause: PanicError{Value: 42}}

	single := &RunError{Strategy: "threads", Failures: []*OperationError{first}}
	if want := "threads: operation 0 (op-1) failed: disk on fire"; single.Error() != want {
		t.Errorf("single failure = %q, want %q", single.Error(), want)
	}

	multi := &RunError{Strategy: "pool", Failures: []*OperationError{first, third}}
	msg := multi.Error()
	if !strings.HasPrefix(msg, "pool: 2 operations failed: ") {
		t.Errorf("multiple failures = %q", msg)
	}
	if strings.Index(msg, "op-1") > strings.Index(msg, "op-3") {
		t.Errorf("failures should be listed by submission index: %q", msg)
	}

	if !errors.Is(multi, errDisk) {
		t.Error("errors.Is should see through every failure")
	}
	var panicErr PanicError
	if !errors.As(multi, &panicErr) || panicErr.Value != 42 {
		t.Errorf("errors.As should find the panic of op-3, got %v", panicErr)
	}
	var opErr *OperationError
	if !errors.As(multi, &opErr) || opErr.Index != 0 {
		t.Errorf("errors.As should return the first failure, got %v", opErr)
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  TimeoutError
		want string
	}{
		{"pending", TimeoutError{Operation: "join", Limit: 20 * time.Millisecond, Pending: 2}, `operation "join" timed out after 20ms (2 pending)`},
		{"nothing pending", TimeoutError{Operation: "wait", Limit: time.Second}, `operation "wait" timed out after 1s`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, context.DeadlineExceeded) {
				t.Error("a timeout should match context.DeadlineExceeded")
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "scale", Message: "must be positive"}
	if want := `validation error for "scale": must be positive`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "running %s", "pool") != nil {
		t.Error("wrapping nil should return nil")
	}
	wrapped := WrapError(ErrHandleAlreadyConsumed, "awaiting %s", "async")
	if wrapped.Error() != "awaiting async: handle already consumed" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, ErrHandleAlreadyConsumed) {
		t.Error("the sentinel should survive wrapping")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped cancel", fmt.Errorf("join: %w", context.Canceled), true},
		{"join timeout", TimeoutError{Operation: "join"}, true},
		{"operation failure", &OperationError{Cause: errDisk}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitSuccess},
		{"config", NewConfigError("bad scale"), ExitErrorConfig},
		{"empty pool", fmt.Errorf("pool: %w", ErrPoolCapacityExhausted), ExitErrorConfig},
		{"join timeout", TimeoutError{Operation: "join"}, ExitErrorTimeout},
		{"bare deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"operation failure", &RunError{Strategy: "threads", Failures: []*OperationError{{Cause: errDisk}}}, ExitErrorGeneric},
		{"consumed handle", ErrHandleAlreadyConsumed, ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

type testColors struct{}

func (testColors) Red() string    { return "<red>" }
func (testColors) Yellow() string { return "<yellow>" }
func (testColors) Reset() string  { return "</>" }

func TestHandleRunError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		want     []string
	}{
		{"success prints nothing", nil, ExitSuccess, nil},
		{"timeout", TimeoutError{Operation: "join", Limit: time.Second, Pending: 1}, ExitErrorTimeout, []string{"<yellow>Run timed out after 10ms"}},
		{"canceled", context.Canceled, ExitErrorCanceled, []string{"Run canceled after 10ms."}},
		{"config", NewConfigError("bad pool size"), ExitErrorConfig, []string{"<red>Configuration error: bad pool size</>"}},
		{"pool capacity", ErrPoolCapacityExhausted, ExitErrorConfig, []string{"capacity exhausted"}},
		{
			"run error lists failures",
			&RunError{Strategy: "pool", Failures: []*OperationError{
				{Index: 0, Name: "op-1", Cause: errDisk},
				{Index: 2, Name: "op-3", Cause: errors.New("broken")},
			}},
			ExitErrorGeneric,
			[]string{"Run failed after 10ms:", "[0] op-1: disk on fire", "[2] op-3: broken"},
		},
		{"generic", errors.New("mystery"), ExitErrorGeneric, []string{"Run failed after 10ms: mystery"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if code := HandleRunError(tt.err, 10*time.Millisecond, &buf, testColors{}); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.want == nil && buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestHandleRunError_NoColors(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	HandleRunError(errors.New("mystery"), time.Second, &buf, nil)
	if buf.String() != "Run failed after 1s: mystery\n" {
		t.Errorf("plain output = %q", buf.String())
	}
}

func TestExitCodes_Distinct(t *testing.T) {
	t.Parallel()
	if ExitSuccess != 0 || ExitErrorCanceled != 130 {
		t.Errorf("success %d and cancel %d should follow shell conventions", ExitSuccess, ExitErrorCanceled)
	}
	seen := map[int]bool{}
	for _, code := range []int{ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorMismatch, ExitErrorConfig, ExitErrorCanceled} {
		if seen[code] {
			t.Errorf("exit code %d used twice", code)
		}
		seen[code] = true
	}
}
