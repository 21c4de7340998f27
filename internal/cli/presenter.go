package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/format"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/metrics"
	"github.com/agbru/concurbench/internal/orchestration"
	"github.com/agbru/concurbench/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing runs.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numOperations int, out io.Writer) {
	DisplayProgress(wg, progressChan, numOperations, out)
}

// CLIColorProvider supplies the active theme's colors to apperrors.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter for
// colorized terminal output.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
	_ apperrors.ColorProvider         = CLIColorProvider{}
)

// FormatDuration formats a duration for display, rendering zero as "< 1µs".
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// baseline returns the duration speedups are measured against: the
// sequential run when it completed, otherwise the slowest completed run.
func baseline(results []orchestration.StrategyResult) time.Duration {
	var slowest time.Duration
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if res.Kind == harness.Sequential {
			return res.Duration
		}
		slowest = max(slowest, res.Duration)
	}
	return slowest
}

// PresentComparisonTable displays the comparison summary with strategy
// names, durations, speedup, assembled values and status. Padding is
// computed on the uncolored text so ANSI codes do not break alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.StrategyResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	base := baseline(results)
	headers := []string{"Strategy", "Duration", "Speedup", "Values"}
	rows := make([][]string, len(results))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for r, res := range results {
		speedup := "-"
		if res.Err == nil && base > 0 {
			speedup = fmt.Sprintf("%.2fx", format.Speedup(base, res.Duration))
		}
		rows[r] = []string{res.Kind.String(), FormatDuration(res.Duration), speedup, FormatValues(res.Result)}
		for i, cell := range rows[r] {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}

	for i, h := range headers {
		fmt.Fprintf(out, "%s%s%s%s   ", ui.ColorUnderline(), h, ui.ColorReset(), padRight("", widths[i]-len(h)))
	}
	fmt.Fprintf(out, "%sStatus%s\n", ui.ColorUnderline(), ui.ColorReset())

	colors := []func() string{ui.ColorBlue, ui.ColorYellow, ui.ColorMagenta, ui.ColorGreen}
	for r, res := range results {
		for i, cell := range rows[r] {
			fmt.Fprintf(out, "%s%s%s%s   ", colors[i](), cell, ui.ColorReset(), padRight("", widths[i]-len([]rune(cell))))
		}
		if res.Err != nil {
			fmt.Fprintf(out, "%s❌ Failure (%v)%s\n", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%s✅ Success%s\n", ui.ColorGreen(), ui.ColorReset())
		}
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the fastest result of a comparison.
func (CLIResultPresenter) PresentResult(result orchestration.StrategyResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "\nFastest: %s%s%s\n", ui.ColorBlue(), result.Kind.Title(), ui.ColorReset())
	DisplayResult(result, opts, out)
}

// FormatDuration formats a duration for display.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return FormatDuration(d)
}

// HandleError reports a run error and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleRunError(err, duration, out, CLIColorProvider{})
}

// DisplayRuntimeStats shows runtime statistics gathered around a run.
func DisplayRuntimeStats(before, after metrics.RuntimeSnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nRuntime Stats:\n")
	fmt.Fprintf(out, "  Goroutines:      %d -> %d\n", before.Goroutines, after.Goroutines)
	fmt.Fprintf(out, "  OS threads:      %d created (+%d)\n", after.ThreadsCreated, after.ThreadsCreated-before.ThreadsCreated)
	fmt.Fprintf(out, "  Heap in use:     %s bytes\n", format.FormatNumberString(fmt.Sprint(after.HeapAlloc)))
	fmt.Fprintf(out, "  GC cycles:       %d\n", after.NumGC-before.NumGC)
}
