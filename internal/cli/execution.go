package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/concurbench/internal/config"
	"github.com/agbru/concurbench/internal/format"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/operation"
	"github.com/agbru/concurbench/internal/ui"
)

// PrintExecutionConfig displays the batch and the strategy options before
// a run.
//
// Parameters:
//   - cfg: The application configuration.
//   - ops: The operations about to run.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, ops []operation.SlowOperation, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Operations: %s (sequential total %s%s%s, longest %s%s%s).\n",
		describeOperations(ops),
		ui.ColorYellow(), format.FormatExecutionDuration(operation.TotalLatency(ops)), ui.ColorReset(),
		ui.ColorYellow(), format.FormatExecutionDuration(operation.MaxLatency(ops)), ui.ColorReset())

	timeout := "none"
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout.String()
	}
	fmt.Fprintf(out, "Pool size: %s%d%s, failure policy: %s%s%s, timeout: %s%s%s.\n",
		ui.ColorCyan(), cfg.PoolSize, ui.ColorReset(),
		ui.ColorCyan(), cfg.Policy(), ui.ColorReset(),
		ui.ColorCyan(), timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
}

func describeOperations(ops []operation.SlowOperation) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.Name()
		if d := operation.LatencyOf(op); d > 0 {
			parts[i] += " " + format.FormatExecutionDuration(d)
		}
	}
	return strings.Join(parts, ", ")
}

// PrintExecutionMode displays whether one strategy or a comparison runs.
func PrintExecutionMode(kinds []harness.Kind, out io.Writer) {
	var modeDesc string
	if len(kinds) > 1 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		modeDesc = fmt.Sprintf("Sequential comparison of %d strategies (%s)", len(kinds), strings.Join(names, ", "))
	} else {
		modeDesc = fmt.Sprintf("Single run with the %s%s%s strategy", ui.ColorGreen(), kinds[0], ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
