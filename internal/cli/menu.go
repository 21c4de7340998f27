// Package cli provides terminal presentation for concurbench: the
// interactive strategy menu, the spinner progress display and the result
// presenter used by the run command.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/operation"
	"github.com/agbru/concurbench/internal/orchestration"
	"github.com/agbru/concurbench/internal/ui"
)

// menuChoices maps each menu entry to its strategy, in display order.
var menuChoices = []struct {
	key   string
	label string
	kind  harness.Kind
}{
	{"1", "Synchronous, Single Threaded", harness.Sequential},
	{"2", "Multithreaded", harness.ThreadPerTask},
	{"3", "Multithreaded with ThreadPool", harness.WorkerPool},
	{"4", "Parallel Tasks", harness.StructuredJoin},
	{"5", "Asynchronous Tasks", harness.FireAndForget},
}

// MenuConfig holds configuration for the menu session.
type MenuConfig struct {
	// Options configures every run started from the menu.
	Options harness.RunOptions
	// Operations builds a fresh batch for each run.
	Operations func() []operation.SlowOperation
	// Presentation controls result display.
	Presentation orchestration.PresentationOptions
	// Progress shows a spinner while a blocking run is joined.
	Progress bool
}

// Menu is the interactive strategy picker: enter 1 to 5 to run a strategy,
// q to quit.
type Menu struct {
	harness *harness.Harness
	config  MenuConfig
	in      io.Reader
	out     io.Writer
}

// NewMenu creates a menu running its selections on h.
func NewMenu(h *harness.Harness, config MenuConfig) *Menu {
	if config.Operations == nil {
		config.Operations = func() []operation.SlowOperation { return operation.DefaultSet(1) }
	}
	return &Menu{
		harness: h,
		config:  config,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (m *Menu) SetInput(in io.Reader) {
	m.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (m *Menu) SetOutput(out io.Writer) {
	m.out = out
}

// Start runs the menu loop until the user enters q, input ends, or ctx is
// canceled. It returns the exit code of the session: success, or canceled
// when ctx ended.
func (m *Menu) Start(ctx context.Context) int {
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		scanner := bufio.NewScanner(m.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		readErr <- err
	}()

	for {
		m.printPrompt()

		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintf(m.out, "\n%sInterrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
			return apperrors.ExitErrorCanceled
		case err := <-readErr:
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(m.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
				return apperrors.ExitErrorGeneric
			}
			return apperrors.ExitSuccess
		case input = <-lines:
		}

		input = strings.TrimSpace(input)
		if input == "q" {
			return apperrors.ExitSuccess
		}
		kind, ok := selection(input)
		if !ok {
			fmt.Fprintf(m.out, "\n%sINVALID SELECTION%s\n\n", ui.ColorRed(), ui.ColorReset())
			continue
		}

		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, MenuSeparator)
		m.Run(ctx, kind)
		if ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
	}
}

func selection(input string) (harness.Kind, bool) {
	for _, c := range menuChoices {
		if input == c.key {
			return c.kind, true
		}
	}
	return 0, false
}

func (m *Menu) printPrompt() {
	fmt.Fprintf(m.out, "\n%sEnter a value between 1 and 5 (or q to quit) corresponding to your process selection:%s\n",
		ui.ColorBold(), ui.ColorReset())
	for _, c := range menuChoices {
		fmt.Fprintf(m.out, "%s%s.%s %s\n", ui.ColorYellow(), c.key, ui.ColorReset(), c.label)
	}
}

// Run executes one strategy and prints its result. FireAndForget prints
// that control came back to the caller before awaiting its handle.
func (m *Menu) Run(ctx context.Context, kind harness.Kind) orchestration.StrategyResult {
	DisplayRunHeader(kind, m.out)
	ops := m.config.Operations()

	var res orchestration.StrategyResult
	if kind == harness.FireAndForget {
		res = m.runAsync(ctx, ops)
	} else {
		var reporter orchestration.ProgressReporter = orchestration.NullProgressReporter{}
		if m.config.Progress {
			reporter = CLIProgressReporter{}
		}
		res = orchestration.ExecuteStrategies(ctx, m.harness, []harness.Kind{kind}, m.config.Options, ops, reporter, m.out)[0]
	}
	DisplayResult(res, m.config.Presentation, m.out)
	return res
}

// runAsync launches the batch, reports that control returned, then awaits
// the handle with the configured timeout.
func (m *Menu) runAsync(ctx context.Context, ops []operation.SlowOperation) orchestration.StrategyResult {
	res := orchestration.StrategyResult{Kind: harness.FireAndForget}
	handle, err := m.harness.Launch(ctx, m.config.Options.Options, ops)
	if err != nil {
		res.Err = err
		return res
	}
	res.Submit = handle.SubmitElapsed()
	fmt.Fprintf(m.out, "Main function continues after %s%s%s; awaiting the handle...\n",
		ui.ColorYellow(), FormatDuration(res.Submit), ui.ColorReset())

	waitCtx := ctx
	if t := m.config.Options.Timeout; t > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	start := time.Now()
	res.Result, res.Err = handle.Wait(waitCtx)
	if res.Err != nil && res.Result.RunID() == "" && apperrors.IsContextError(res.Err) && ctx.Err() == nil {
		res.Err = apperrors.TimeoutError{Operation: harness.FireAndForget.String(), Limit: m.config.Options.Timeout}
	}
	res.Duration = res.Result.Elapsed()
	if res.Duration == 0 {
		res.Duration = res.Submit + time.Since(start)
	}
	// Submit was already reported above.
	res.Submit = 0
	return res
}
