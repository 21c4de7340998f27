// Package app wires the concurbench command line: configuration, logging,
// the harness and its observers, and the menu, run and tui front ends.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agbru/concurbench/internal/cli"
	"github.com/agbru/concurbench/internal/config"
	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/logging"
	"github.com/agbru/concurbench/internal/operation"
	"github.com/agbru/concurbench/internal/orchestration"
	"github.com/agbru/concurbench/internal/tui"
	"github.com/agbru/concurbench/internal/ui"
)

// Application represents the concurbench application instance.
type Application struct {
	Config    config.AppConfig
	In        io.Reader
	Out       io.Writer
	ErrWriter io.Writer

	harnessOpts []harness.Option
	exitCode    int
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader the interactive menu reads selections from.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// WithHarnessOptions appends options to every harness the application builds.
func WithHarnessOptions(opts ...harness.Option) AppOption {
	return func(a *Application) { a.harnessOpts = append(a.harnessOpts, opts...) }
}

// New creates an Application writing results to out and diagnostics to
// errWriter.
func New(out, errWriter io.Writer, opts ...AppOption) *Application {
	a := &Application{
		Config:    config.Default(),
		In:        os.Stdin,
		Out:       out,
		ErrWriter: errWriter,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute parses args, runs the selected command and returns the process
// exit code. SIGINT and SIGTERM cancel the command's context.
func (a *Application) Execute(ctx context.Context, args []string) int {
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	a.exitCode = apperrors.ExitSuccess
	root := a.newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		code := apperrors.ExitCodeFor(err)
		if code == apperrors.ExitErrorConfig {
			fmt.Fprintf(a.ErrWriter, "Run '%s --help' for usage.\n", root.Name())
		}
		return code
	}
	return a.exitCode
}

func (a *Application) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "concurbench",
		Short: "Compare concurrency strategies on a batch of slow operations",
		Long: `concurbench runs the same batch of slow operations under five
concurrency strategies (sequential, threads, pool, parallel and async) and
reports the assembled values and the elapsed time of each.

Without a subcommand it starts the interactive menu.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(a.Config, cmd.Flags())
			if err != nil {
				return err
			}
			a.Config = cfg
			ui.InitTheme(cfg.NoColor, cfg.Theme)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.Config.TUI {
				return a.runTUI(cmd.Context())
			}
			return a.runMenu(cmd.Context())
		},
	}
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.ErrWriter)
	root.SetVersionTemplate("concurbench {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.ConfigError{Message: err.Error()}
	})
	config.RegisterFlags(root.PersistentFlags(), &a.Config)

	root.AddCommand(a.newRunCmd())
	root.AddCommand(a.newTUICmd())
	root.AddCommand(a.newVersionCmd())
	return root
}

func (a *Application) newRunCmd() *cobra.Command {
	valid := []string{"all"}
	for _, k := range harness.Kinds() {
		valid = append(valid, k.String())
	}
	return &cobra.Command{
		Use:   "run [strategy|all]",
		Short: "Run the batch under one strategy, or compare all of them",
		Example: `  concurbench run pool -k 2
  concurbench run all --scale 0.01 --quiet
  concurbench run parallel --fail-op 1 --fail-policy collect-all`,
		ValidArgs: valid,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return apperrors.NewConfigError("run accepts at most one strategy, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			selection := a.Config.Strategy
			if len(args) == 1 {
				selection = args[0]
			}
			return a.runBatch(cmd.Context(), selection)
		},
	}
}

func (a *Application) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive dashboard",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}

func (a *Application) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			PrintVersion(cmd.OutOrStdout())
		},
	}
}

// noArgs rejects positional arguments as a configuration error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return apperrors.NewConfigError("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

// newLogger returns the console logger for the configured verbosity.
func (a *Application) newLogger() logging.Logger {
	level := "warn"
	switch {
	case a.Config.Verbose:
		level = "debug"
	case a.Config.Quiet, a.Config.JSON:
		level = "error"
	}
	return logging.NewConsoleLogger(a.ErrWriter, level, a.Config.NoColor || a.Config.Theme == ui.NoColorTheme.Name)
}

// operations builds a fresh batch, logging each operation when verbose.
func (a *Application) operations(logger logging.Logger) []operation.SlowOperation {
	ops := a.Config.Operations()
	if a.Config.Verbose {
		ops = operation.LoggedAll(ops, logger)
	}
	return ops
}

// runMenu starts the interactive menu.
func (a *Application) runMenu(ctx context.Context) error {
	logger := a.newLogger()
	h, stop, err := a.newHarness(ctx, logger)
	if err != nil {
		return err
	}
	defer stop()

	menu := cli.NewMenu(h, cli.MenuConfig{
		Options:      a.Config.RunOptions(),
		Operations:   func() []operation.SlowOperation { return a.operations(logger) },
		Presentation: a.presentation(),
		Progress:     !a.Config.Quiet,
	})
	menu.SetInput(a.In)
	menu.SetOutput(a.Out)
	a.exitCode = menu.Start(ctx)
	return nil
}

// runTUI launches the dashboard. Console logging is disabled because it
// would corrupt the alternate screen.
func (a *Application) runTUI(ctx context.Context) error {
	h, stop, err := a.newHarness(ctx, logging.Nop())
	if err != nil {
		return err
	}
	defer stop()
	a.exitCode = tui.Run(ctx, h, a.Config, Version)
	return nil
}

func (a *Application) presentation() orchestration.PresentationOptions {
	return orchestration.PresentationOptions{
		Verbose:     a.Config.Verbose,
		ShowWorkers: a.Config.ShowWorkers,
	}
}
