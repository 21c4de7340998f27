package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape codes used when rendering error messages.
// A nil provider renders plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// ExitCodeFor maps an error to the process exit code without producing output.
func ExitCodeFor(err error) int {
	var cfgErr ConfigError
	var timeoutErr TimeoutError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr), errors.Is(err, ErrPoolCapacityExhausted):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}

// HandleRunError reports a failed run to the user and returns the matching
// exit code. It never panics, so a failed run cannot take the process down.
//
// Parameters:
//   - err: The error returned by the run (nil means success).
//   - elapsed: How long the run took before failing.
//   - out: The writer receiving the message.
//   - colors: Optional color provider; nil renders without colors.
//
// Returns:
//   - int: The exit code for the error.
func HandleRunError(err error, elapsed time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sRun timed out after %s: %v%s\n", yellow, elapsed, err, reset)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sRun canceled after %s.%s\n", yellow, elapsed, reset)
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", red, err, reset)
	default:
		var runErr *RunError
		if errors.As(err, &runErr) {
			fmt.Fprintf(out, "%sRun failed after %s:%s\n", red, elapsed, reset)
			for _, f := range runErr.Failures {
				fmt.Fprintf(out, "  %s[%d] %s: %v%s\n", red, f.Index, f.Name, f.Cause, reset)
			}
			return code
		}
		fmt.Fprintf(out, "%sRun failed after %s: %v%s\n", red, elapsed, err, reset)
	}
	return code
}
