// Package format provides the duration, progress and number formatting
// shared by the CLI and the dashboard.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
// This approach provides a more human-readable output for short durations.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%d\u00b5s", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatMilliseconds renders d as a whole number of milliseconds with
// thousands separators, e.g. "10,004".
func FormatMilliseconds(d time.Duration) string {
	return FormatNumberString(strconv.FormatInt(d.Milliseconds(), 10))
}

// Speedup returns how many times faster d is than baseline, or 0 when d is
// not positive.
func Speedup(baseline, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(baseline) / float64(d)
}
