// Package config defines the application configuration, its command-line
// flags and the CONCURBENCH_* environment overrides.
package config

import (
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/operation"
	"github.com/agbru/concurbench/internal/ui"
)

// EnvPrefix is the prefix of every environment variable read by the
// application.
const EnvPrefix = "CONCURBENCH_"

// AppConfig holds the resolved configuration of one invocation.
type AppConfig struct {
	// Strategy is a strategy name, menu digit, alias, or "all".
	Strategy string
	// PoolSize is the number of workers of the pool strategy.
	PoolSize int
	// Scale multiplies the latency of every demo operation.
	Scale float64
	// Timeout bounds each run's join. Zero means no limit.
	Timeout time.Duration
	// FailurePolicy is "fail-fast" or "collect-all".
	FailurePolicy string
	// FailOp makes the operation at this index fail. -1 disables injection.
	FailOp int
	NoColor       bool
	Theme         string
	Quiet         bool
	Verbose       bool
	// ShowWorkers prints the worker that ran each operation.
	ShowWorkers bool
	JSON        bool
	// MetricsAddr serves Prometheus metrics on this address when non-empty.
	MetricsAddr string
	TUI         bool
}

// Default returns the configuration used when no flag or environment
// variable overrides a value.
func Default() AppConfig {
	return AppConfig{
		Strategy:      "all",
		PoolSize:      harness.DefaultPoolSize,
		Scale:         1.0,
		FailurePolicy: harness.FailFast.String(),
		FailOp:        -1,
		Theme:         ui.DarkTheme.Name,
	}
}

// RegisterFlags binds cfg's fields to flags on fs. The current values of
// cfg are used as flag defaults.
func RegisterFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.IntVarP(&cfg.PoolSize, "pool-size", "k", cfg.PoolSize, "number of workers of the pool strategy")
	fs.Float64Var(&cfg.Scale, "scale", cfg.Scale, "latency multiplier for the demo operations (0.01 runs them in ~50ms)")
	fs.DurationVarP(&cfg.Timeout, "timeout", "t", cfg.Timeout, "join timeout per run (0 disables)")
	fs.StringVar(&cfg.FailurePolicy, "fail-policy", cfg.FailurePolicy, "structured join failure policy: fail-fast or collect-all")
	fs.IntVar(&cfg.FailOp, "fail-op", cfg.FailOp, "make the operation at this index fail (-1 disables)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme: dark, light or none")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "print only the assembled values and milliseconds")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "log operation lifecycle events")
	fs.BoolVarP(&cfg.ShowWorkers, "workers", "w", cfg.ShowWorkers, "show which worker ran each operation")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "print results as JSON")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (e.g. :9090)")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "launch the interactive dashboard")
}

// Resolve applies environment overrides for every flag not set on fs and
// validates the result.
func Resolve(cfg AppConfig, fs *pflag.FlagSet) (AppConfig, error) {
	applyEnvOverrides(&cfg, fs)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for semantic errors. A pool size below
// one is left to the harness, which reports it as
// apperrors.ErrPoolCapacityExhausted.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first problem found.
func (c AppConfig) Validate() error {
	if c.Scale <= 0 {
		return apperrors.NewConfigError("--scale must be greater than zero, got %g", c.Scale)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("--timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := harness.ParseFailurePolicy(c.FailurePolicy); err != nil {
		return err
	}
	if n := len(operation.DefaultSet(1)); c.FailOp < -1 || c.FailOp >= n {
		return apperrors.NewConfigError("--fail-op must be between -1 and %d, got %d", n-1, c.FailOp)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	if !ui.IsThemeName(c.Theme) {
		return apperrors.NewConfigError("unknown theme %q (valid: %v)", c.Theme, ui.ThemeNames())
	}
	return nil
}

// Policy returns the parsed failure policy. Call Validate first.
func (c AppConfig) Policy() harness.FailurePolicy {
	p, _ := harness.ParseFailurePolicy(c.FailurePolicy)
	return p
}

// RunOptions returns the harness options described by the configuration.
func (c AppConfig) RunOptions() harness.RunOptions {
	return harness.RunOptions{
		Options: harness.Options{PoolSize: c.PoolSize, Policy: c.Policy()},
		Timeout: c.Timeout,
	}
}

// Operations returns the demo batch scaled by Scale, with the failure
// injected at FailOp when set.
func (c AppConfig) Operations() []operation.SlowOperation {
	ops := operation.DefaultSet(c.Scale)
	if c.FailOp >= 0 {
		ops = operation.WithFailure(ops, c.FailOp, nil)
	}
	return ops
}
