package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
)

// execute runs the application with colors disabled and returns the exit
// code, stdout and stderr.
func execute(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := New(&out, &errOut, WithInput(strings.NewReader(input)))

	done := make(chan int, 1)
	go func() {
		done <- a.Execute(context.Background(), append([]string{"--no-color"}, args...))
	}()
	select {
	case code := <-done:
		return code, out.String(), errOut.String()
	case <-time.After(20 * time.Second):
		t.Fatalf("concurbench %v did not finish", args)
		return 0, "", ""
	}
}

func TestExecute_RunSingleStrategy(t *testing.T) {
	t.Parallel()
	code, out, _ := execute(t, "", "run", "sequential", "--scale", "0.005")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	for _, want := range []string{
		"Single run with the sequential strategy",
		"Done with Tasks - Values are: 123",
		"Total Milliseconds =",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExecute_RunAllCompares(t *testing.T) {
	t.Parallel()
	code, out, _ := execute(t, "", "run", "all", "--scale", "0.005")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	if !strings.Contains(out, "Global Status: Success") {
		t.Errorf("comparison should succeed:\n%s", out)
	}
}

func TestExecute_Quiet(t *testing.T) {
	t.Parallel()
	code, out, _ := execute(t, "", "run", "all", "--scale", "0.002", "--quiet")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(harness.Kinds()) {
		t.Fatalf("expected one line per strategy, got %d:\n%s", len(lines), out)
	}
	for i, kind := range harness.Kinds() {
		if !strings.HasPrefix(lines[i], kind.String()+" 123 ") {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], kind.String()+" 123 ")
		}
	}
}

func TestExecute_JSON(t *testing.T) {
	t.Parallel()
	code, out, _ := execute(t, "", "run", "--json", "--scale", "0.002", "--workers")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	var results []struct {
		Strategy string   `json:"strategy"`
		Values   []string `json:"values"`
		Joined   string   `json:"joined"`
		Workers  []int    `json:"workers"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(results) != len(harness.Kinds()) {
		t.Fatalf("expected %d results, got %d", len(harness.Kinds()), len(results))
	}
	for _, r := range results {
		if r.Joined != "123" {
			t.Errorf("%s joined %q, want 123", r.Strategy, r.Joined)
		}
	}
}

func TestExecute_FailureExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:     "injected failure",
			args:     []string{"run", "threads", "--scale", "0.002", "--fail-op", "1"},
			wantCode: apperrors.ExitErrorGeneric,
			wantOut:  "[1] op-2",
		},
		{
			name:     "join timeout",
			args:     []string{"run", "sequential", "--scale", "0.2", "--timeout", "20ms"},
			wantCode: apperrors.ExitErrorTimeout,
			wantOut:  "timed out",
		},
		{
			name:     "pool without workers",
			args:     []string{"run", "pool", "-k", "0", "--scale", "0.002"},
			wantCode: apperrors.ExitErrorConfig,
			wantOut:  "capacity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, out, _ := execute(t, "", tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\n%s", code, tt.wantCode, out)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, out)
			}
		})
	}
}

func TestExecute_ConfigErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"zero scale", []string{"run", "--scale", "0"}},
		{"unknown strategy", []string{"run", "turbo"}},
		{"unknown command", []string{"launch"}},
		{"unknown flag", []string{"run", "--turbo"}},
		{"too many strategies", []string{"run", "pool", "threads"}},
		{"bad failure policy", []string{"run", "--fail-policy", "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, _, errOut := execute(t, "", tt.args...)
			if code != apperrors.ExitErrorConfig {
				t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
			}
			if !strings.Contains(errOut, "Error:") {
				t.Errorf("stderr should report the error, got %q", errOut)
			}
		})
	}
}

func TestExecute_Version(t *testing.T) {
	t.Parallel()
	for _, args := range [][]string{{"version"}, {"--version"}} {
		code, out, _ := execute(t, "", args...)
		if code != apperrors.ExitSuccess {
			t.Errorf("%v: exit code = %d", args, code)
		}
		if !strings.Contains(out, "concurbench "+Version) {
			t.Errorf("%v: output %q should name the version", args, out)
		}
	}
}

func TestExecute_Menu(t *testing.T) {
	t.Parallel()
	code, out, _ := execute(t, "9\n1\nq\n", "--scale", "0.002")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	if !strings.Contains(out, "INVALID SELECTION") {
		t.Errorf("menu should reject 9:\n%s", out)
	}
	if !strings.Contains(out, "Values are: 123") {
		t.Errorf("menu should run the sequential strategy:\n%s", out)
	}
}

func TestExecute_MetricsServer(t *testing.T) {
	t.Parallel()
	code, out, errOut := execute(t, "", "run", "pool", "--scale", "0.002", "--metrics-addr", "127.0.0.1:0")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s\n%s", code, out, errOut)
	}
}

func TestExecute_VerboseLogsOperations(t *testing.T) {
	t.Parallel()
	code, out, errOut := execute(t, "", "run", "parallel", "--scale", "0.002", "--verbose")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	if !strings.Contains(errOut, "operation finished") {
		t.Errorf("verbose run should log operation events:\n%s", errOut)
	}
	if !strings.Contains(out, "Goroutines") {
		t.Errorf("verbose run should print runtime stats:\n%s", out)
	}
}

func TestExecute_EnvOverride(t *testing.T) {
	t.Setenv("CONCURBENCH_POOL_SIZE", "0")
	code, _, _ := execute(t, "", "run", "pool", "--scale", "0.002", "--quiet")
	if code != apperrors.ExitErrorConfig {
		t.Errorf("env pool size 0 should exit %d, got %d", apperrors.ExitErrorConfig, code)
	}

	// The command line wins over the environment.
	code, out, _ := execute(t, "", "run", "pool", "-k", "2", "--scale", "0.002", "--quiet")
	if code != apperrors.ExitSuccess || !strings.HasPrefix(out, "pool 123 ") {
		t.Errorf("flag should override env: code %d, output %q", code, out)
	}
}

type countingObserver struct {
	harness.NopObserver
	mu   sync.Mutex
	runs []harness.Kind
}

func (c *countingObserver) RunFinished(info harness.RunInfo, _ harness.RunResult, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = append(c.runs, info.Strategy)
}

func TestWithHarnessOptions(t *testing.T) {
	t.Parallel()
	obs := &countingObserver{}
	var out bytes.Buffer
	a := New(&out, &bytes.Buffer{}, WithHarnessOptions(harness.WithObserver(obs)))
	code := a.Execute(context.Background(), []string{"--no-color", "run", "all", "--scale", "0.002", "--quiet"})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\n%s", code, out.String())
	}
	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.runs) != len(harness.Kinds()) {
		t.Fatalf("observer saw %d runs, want %d", len(obs.runs), len(harness.Kinds()))
	}
	for i, k := range harness.Kinds() {
		if obs.runs[i] != k {
			t.Errorf("run %d = %s, want %s", i, obs.runs[i], k)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	for _, want := range []string{"concurbench", "commit:", "go:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("version banner missing %q: %q", want, buf.String())
		}
	}
}
