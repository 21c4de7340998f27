package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/operation"
	"github.com/agbru/concurbench/internal/ui"
)

func fastMenu(input string, opts harness.RunOptions) (*Menu, *bytes.Buffer) {
	m := NewMenu(harness.New(), MenuConfig{
		Options:    opts,
		Operations: func() []operation.SlowOperation { return operation.DefaultSet(0.005) },
	})
	m.SetInput(strings.NewReader(input))
	var out bytes.Buffer
	m.SetOutput(&out)
	return m, &out
}

func runMenu(t *testing.T, m *Menu, ctx context.Context) int {
	t.Helper()
	done := make(chan int, 1)
	go func() { done <- m.Start(ctx) }()
	select {
	case code := <-done:
		return code
	case <-time.After(10 * time.Second):
		t.Fatal("menu did not return")
		return -1
	}
}

func TestMenu_Selections(t *testing.T) {
	ui.InitTheme(true)
	defer ui.SetCurrentTheme(ui.DarkTheme)

	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{"sequential", "1\nq\n", []string{"Synchronous Operations!", "Done with Tasks - Values are: 123", "Total Milliseconds = "}},
		{"threads", "2\nq\n", []string{"Threads!", "Done with Threads - Values are: 123"}},
		{"pool", "3\nq\n", []string{"Diving Into Thread Pool!", "Done with Threads - Values are: 123"}},
		{"parallel", "4\nq\n", []string{"Parallel Tasks!", "Done with Tasks - Values are: 123"}},
		{"async", "5\nq\n", []string{"Asynchronous Tasks!", "Main function continues after", "awaiting the handle", "Done with Tasks - Values are: 123"}},
		{"invalid then valid", "7\nfoo\n1\nq\n", []string{"INVALID SELECTION", "Done with Tasks"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, out := fastMenu(tt.input, harness.RunOptions{Options: harness.Options{PoolSize: 2}})
			if code := runMenu(t, m, context.Background()); code != apperrors.ExitSuccess {
				t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
			}
			output := out.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("output should contain %q, got:\n%s", s, output)
				}
			}
			if !strings.Contains(output, MenuSeparator) {
				t.Error("each run should be preceded by the separator")
			}
		})
	}
}

func TestMenu_PromptListsChoices(t *testing.T) {
	ui.InitTheme(true)
	defer ui.SetCurrentTheme(ui.DarkTheme)

	m, out := fastMenu("q\n", harness.RunOptions{})
	runMenu(t, m, context.Background())
	for _, want := range []string{
		"Enter a value between 1 and 5 (or q to quit)",
		"1. Synchronous, Single Threaded",
		"2. Multithreaded",
		"3. Multithreaded with ThreadPool",
		"4. Parallel Tasks",
		"5. Asynchronous Tasks",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
	if strings.Contains(out.String(), "INVALID SELECTION") {
		t.Error("q must not be reported as invalid")
	}
}

func TestMenu_EOFEndsSession(t *testing.T) {
	t.Parallel()
	m, _ := fastMenu("", harness.RunOptions{})
	if code := runMenu(t, m, context.Background()); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
}

func TestMenu_CancelEndsSession(t *testing.T) {
	t.Parallel()
	m := NewMenu(harness.New(), MenuConfig{})
	pr, pw := io.Pipe()
	defer pw.Close()
	m.SetInput(pr)
	m.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := runMenu(t, m, ctx); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestMenu_RunReportsFailures(t *testing.T) {
	ui.InitTheme(true)
	defer ui.SetCurrentTheme(ui.DarkTheme)

	m := NewMenu(harness.New(), MenuConfig{
		Operations: func() []operation.SlowOperation {
			return operation.WithFailure(operation.DefaultSet(0.005), 1, nil)
		},
	})
	var out bytes.Buffer
	m.SetOutput(&out)

	res := m.Run(context.Background(), harness.ThreadPerTask)
	if res.Err == nil {
		t.Fatal("expected the run to fail")
	}
	if !strings.Contains(out.String(), "[1] op-2") {
		t.Errorf("failure should name the operation, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Values completed before the failure: 1_3") {
		t.Errorf("completed values should be shown, got:\n%s", out.String())
	}
}

func TestMenu_AsyncTimeout(t *testing.T) {
	t.Parallel()
	m := NewMenu(harness.New(), MenuConfig{
		Options: harness.RunOptions{Timeout: 20 * time.Millisecond},
		Operations: func() []operation.SlowOperation {
			return []operation.SlowOperation{operation.Delay{Label: "slow", Latency: time.Second, Value: "1"}}
		},
	})
	m.SetOutput(io.Discard)

	res := m.Run(context.Background(), harness.FireAndForget)
	if apperrors.ExitCodeFor(res.Err) != apperrors.ExitErrorTimeout {
		t.Fatalf("err = %v, want a timeout", res.Err)
	}
}

func TestSelection(t *testing.T) {
	t.Parallel()
	for i, k := range harness.Kinds() {
		got, ok := selection(string(rune('1' + i)))
		if !ok || got != k {
			t.Errorf("selection(%d) = %v, %v; want %v", i+1, got, ok, k)
		}
	}
	for _, bad := range []string{"", "0", "6", "threads", "Q", "1 "} {
		if _, ok := selection(bad); ok {
			t.Errorf("selection(%q) should be invalid", bad)
		}
	}
}
