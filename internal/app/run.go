package app

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/agbru/concurbench/internal/cli"
	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/logging"
	"github.com/agbru/concurbench/internal/metrics"
	"github.com/agbru/concurbench/internal/orchestration"
	"github.com/agbru/concurbench/internal/server"
)

// newHarness builds the harness shared by every front end. When a metrics
// address is configured it also starts the metrics server and registers a
// Prometheus collector as an observer; the returned stop function shuts the
// server down.
func (a *Application) newHarness(ctx context.Context, logger logging.Logger) (*harness.Harness, func(), error) {
	observers := []harness.Observer{harness.NewLogObserver(logger)}
	stop := func() {}

	if a.Config.MetricsAddr != "" {
		srv := server.New(a.Config.MetricsAddr, server.DefaultSecurityConfig(), logger)
		collector, err := metrics.NewCollector(srv.Metrics().Registry())
		if err != nil {
			return nil, nil, apperrors.WrapError(err, "register run metrics")
		}
		observers = append(observers, collector)

		srvCtx, cancel := context.WithCancel(ctx)
		ready := make(chan struct{})
		done := make(chan error, 1)
		go func() { done <- srv.ListenAndServe(srvCtx, ready) }()
		select {
		case <-ready:
		case err := <-done:
			cancel()
			return nil, nil, apperrors.NewConfigError("--metrics-addr %s: %v", a.Config.MetricsAddr, err)
		}
		logger.Debug("serving metrics", logging.String("addr", srv.Addr()))
		stop = func() {
			cancel()
			if err := <-done; err != nil {
				logger.Error("metrics server", err)
			}
		}
	}

	opts := append([]harness.Option{
		harness.WithLogger(logger),
		harness.WithObserver(observers...),
	}, a.harnessOpts...)
	return harness.New(opts...), stop, nil
}

// runBatch executes the run command: one strategy, or a comparison of all
// of them, rendered as text, quiet lines or JSON.
func (a *Application) runBatch(ctx context.Context, selection string) error {
	kinds, err := orchestration.KindsToRun(selection)
	if err != nil {
		return err
	}

	logger := a.newLogger()
	h, stop, err := a.newHarness(ctx, logger)
	if err != nil {
		return err
	}
	defer stop()

	out := a.Out
	ops := a.operations(logger)
	if !a.Config.Quiet && !a.Config.JSON {
		cli.PrintExecutionConfig(a.Config, ops, out)
		cli.PrintExecutionMode(kinds, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet || a.Config.JSON || len(kinds) == 1 {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	sampler := metrics.NewRuntimeSampler()
	before := sampler.Snapshot()
	results := orchestration.ExecuteStrategies(ctx, h, kinds, a.Config.RunOptions(), ops, progressReporter, progressOut)
	after := sampler.Snapshot()

	a.exitCode = a.present(results, out)
	if a.Config.Verbose && !a.Config.JSON {
		cli.DisplayRuntimeStats(before, after, out)
	}
	return nil
}

// present renders results and returns the exit code of the command.
// Results are printed in execution order except for the comparison table,
// which ranks them.
func (a *Application) present(results []orchestration.StrategyResult, out io.Writer) int {
	switch {
	case a.Config.JSON:
		if err := cli.WriteJSON(out, results, a.Config.ShowWorkers); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing JSON: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		return exitCode(results)
	case a.Config.Quiet:
		for _, res := range results {
			if res.Err != nil {
				apperrors.HandleRunError(res.Err, res.Duration, a.ErrWriter, nil)
				continue
			}
			cli.DisplayQuietResult(out, res)
		}
		return exitCode(results)
	case len(results) == 1:
		cli.DisplayRunHeader(results[0].Kind, out)
		cli.DisplayResult(results[0], a.presentation(), out)
		return apperrors.ExitCodeFor(results[0].Err)
	default:
		presenter := cli.CLIResultPresenter{}
		return orchestration.AnalyzeComparisonResults(results, a.presentation(), presenter, presenter, out)
	}
}

// exitCode derives the exit code of a run without rendering anything.
func exitCode(results []orchestration.StrategyResult) int {
	if len(results) == 1 {
		return apperrors.ExitCodeFor(results[0].Err)
	}
	presenter := cli.CLIResultPresenter{}
	return orchestration.AnalyzeComparisonResults(slices.Clone(results), orchestration.PresentationOptions{}, presenter, presenter, io.Discard)
}
