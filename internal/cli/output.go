// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatValues], [FormatQuietResult].
//
//   - Write* functions emit machine-readable output.
//     Examples: [WriteJSON].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/orchestration"
	"github.com/agbru/concurbench/internal/ui"
)

// MenuSeparator is printed before each run started from the menu.
const MenuSeparator = "------------------------------------"

// missingValue stands in for a slot that never completed.
const missingValue = "_"

// DisplayRunHeader prints the heading of a strategy run.
func DisplayRunHeader(kind harness.Kind, out io.Writer) {
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorBold(), kind.Title(), ui.ColorReset())
}

// unitLabel names what a strategy runs its operations on ("Done with
// Threads", "Done with Tasks").
func unitLabel(kind harness.Kind) string {
	switch kind {
	case harness.ThreadPerTask, harness.WorkerPool:
		return "Threads"
	default:
		return "Tasks"
	}
}

// FormatValues renders the values of every slot in index order, using "_"
// for slots that did not complete.
func FormatValues(result harness.RunResult) string {
	values := result.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		if !result.Completed(i) {
			v = missingValue
		}
		parts[i] = v
	}
	return strings.Join(parts, "")
}

// FormatQuietResult formats a result for quiet mode: the assembled values
// and the elapsed milliseconds, suitable for scripting.
func FormatQuietResult(res orchestration.StrategyResult) string {
	return fmt.Sprintf("%s %s %d", res.Kind, res.Result.Joined(), res.Duration.Milliseconds())
}

// DisplayQuietResult outputs a result in quiet mode.
func DisplayQuietResult(out io.Writer, res orchestration.StrategyResult) {
	fmt.Fprintln(out, FormatQuietResult(res))
}

// DisplayResult prints the outcome of one strategy run: the assembled values
// and the total milliseconds. Failed runs are reported through
// apperrors.HandleRunError, followed by whatever values completed before
// the failure.
//
// Parameters:
//   - res: The strategy result.
//   - opts: Verbose adds the run id; ShowWorkers lists each slot's worker.
//   - out: The output writer.
func DisplayResult(res orchestration.StrategyResult, opts orchestration.PresentationOptions, out io.Writer) {
	if res.Kind == harness.FireAndForget && res.Submit > 0 {
		fmt.Fprintf(out, "Control returned to the caller after %s%s%s.\n",
			ui.ColorYellow(), FormatDuration(res.Submit), ui.ColorReset())
	}

	if res.Err != nil {
		apperrors.HandleRunError(res.Err, res.Duration, out, CLIColorProvider{})
		if partial := FormatValues(res.Result); strings.Trim(partial, missingValue) != "" {
			fmt.Fprintf(out, "Values completed before the failure: %s\n", partial)
		}
	} else {
		fmt.Fprintf(out, "Done with %s - Values are: %s%s%s\n",
			unitLabel(res.Kind), ui.ColorGreen(), res.Result.Joined(), ui.ColorReset())
		fmt.Fprintf(out, "Total Milliseconds = %s%d%s\n",
			ui.ColorYellow(), res.Duration.Milliseconds(), ui.ColorReset())
	}

	if opts.Verbose && res.Result.RunID() != "" {
		fmt.Fprintf(out, "Run id: %s%s%s\n", ui.ColorMagenta(), res.Result.RunID(), ui.ColorReset())
	}
	if opts.ShowWorkers {
		displayWorkers(res.Result, out)
	}
}

func displayWorkers(result harness.RunResult, out io.Writer) {
	values := result.Values()
	for i := range values {
		if !result.Completed(i) {
			fmt.Fprintf(out, "  [%d] %s\n", i, missingValue)
			continue
		}
		worker := "caller"
		if w := result.Worker(i); w > 0 {
			worker = fmt.Sprintf("worker %d", w)
		}
		fmt.Fprintf(out, "  [%d] %s <- %s%s%s\n", i, values[i], ui.ColorGrey(), worker, ui.ColorReset())
	}
}

type jsonFailure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type jsonResult struct {
	Strategy  string        `json:"strategy"`
	Title     string        `json:"title"`
	RunID     string        `json:"run_id,omitempty"`
	Values    []string      `json:"values"`
	Joined    string        `json:"joined"`
	ElapsedMS int64         `json:"elapsed_ms"`
	SubmitMS  float64       `json:"submit_ms,omitempty"`
	Workers   []int         `json:"workers,omitempty"`
	Failures  []jsonFailure `json:"failures,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func toJSON(res orchestration.StrategyResult, withWorkers bool) jsonResult {
	values := res.Result.Values()
	out := jsonResult{
		Strategy:  res.Kind.String(),
		Title:     res.Kind.Title(),
		RunID:     res.Result.RunID(),
		Values:    values,
		Joined:    res.Result.Joined(),
		ElapsedMS: res.Duration.Milliseconds(),
		SubmitMS:  float64(res.Submit.Microseconds()) / 1000,
	}
	if withWorkers {
		out.Workers = make([]int, len(values))
		for i := range values {
			out.Workers[i] = res.Result.Worker(i)
		}
	}
	for _, f := range res.Result.Failures() {
		out.Failures = append(out.Failures, jsonFailure{Index: f.Index, Name: f.Name, Error: f.Err.Error()})
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

// WriteJSON writes the results as an indented JSON array.
func WriteJSON(out io.Writer, results []orchestration.StrategyResult, withWorkers bool) error {
	report := make([]jsonResult, len(results))
	for i, res := range results {
		report[i] = toJSON(res, withWorkers)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
