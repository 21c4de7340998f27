package harness

import (
	"time"

	"github.com/agbru/concurbench/internal/logging"
)

// RunInfo describes a run when it starts and finishes.
type RunInfo struct {
	RunID      string
	Strategy   Kind
	Operations int
	Started    time.Time
}

// OperationEvent describes one operation starting or finishing.
type OperationEvent struct {
	RunID    string
	Strategy Kind
	Index    int
	Name     string
	// Worker is the OS thread id under ThreadPerTask, the worker number
	// under WorkerPool, and 0 otherwise.
	Worker int
	// Time is when the event happened.
	Time time.Time
	// Value, Err and Elapsed are set on OperationFinished only.
	Value   string
	Err     error
	Elapsed time.Duration
}

// Observer receives lifecycle events of runs. Operation events arrive from
// worker goroutines concurrently, so implementations must be safe for
// concurrent use and should return quickly.
//
// A join can return before every operation has finished: a fail-fast
// StructuredJoin returns at the first failure, and a timeout or cancellation
// stops the wait while operations keep running. OperationStarted and
// OperationFinished may therefore still arrive after RunFinished. Observers
// that release resources in RunFinished, or whose owner does once the run
// returns, must drop such late events.
type Observer interface {
	RunStarted(info RunInfo)
	OperationStarted(ev OperationEvent)
	OperationFinished(ev OperationEvent)
	RunFinished(info RunInfo, result RunResult, err error)
}

// Observers fans every event out to each of its members in order.
type Observers []Observer

func (o Observers) RunStarted(info RunInfo) {
	for _, obs := range o {
		obs.RunStarted(info)
	}
}

func (o Observers) OperationStarted(ev OperationEvent) {
	for _, obs := range o {
		obs.OperationStarted(ev)
	}
}

func (o Observers) OperationFinished(ev OperationEvent) {
	for _, obs := range o {
		obs.OperationFinished(ev)
	}
}

func (o Observers) RunFinished(info RunInfo, result RunResult, err error) {
	for _, obs := range o {
		obs.RunFinished(info, result, err)
	}
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) RunStarted(RunInfo)                    {}
func (NopObserver) OperationStarted(OperationEvent)       {}
func (NopObserver) OperationFinished(OperationEvent)      {}
func (NopObserver) RunFinished(RunInfo, RunResult, error) {}

// LogObserver writes lifecycle events to a logger: runs at info level,
// operations at debug level, failures at error level.
type LogObserver struct {
	logger logging.Logger
}

// NewLogObserver returns an observer logging to logger.
func NewLogObserver(logger logging.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (l *LogObserver) RunStarted(info RunInfo) {
	l.logger.Info("run started",
		logging.String("run_id", info.RunID),
		logging.String("strategy", info.Strategy.String()),
		logging.Int("operations", info.Operations))
}

func (l *LogObserver) OperationStarted(ev OperationEvent) {
	l.logger.Debug("operation started",
		logging.String("run_id", ev.RunID),
		logging.Int("index", ev.Index),
		logging.String("op", ev.Name),
		logging.Int("worker", ev.Worker))
}

func (l *LogObserver) OperationFinished(ev OperationEvent) {
	if ev.Err != nil {
		l.logger.Error("operation failed", ev.Err,
			logging.String("run_id", ev.RunID),
			logging.Int("index", ev.Index),
			logging.Duration("elapsed", ev.Elapsed))
		return
	}
	l.logger.Debug("operation finished",
		logging.String("run_id", ev.RunID),
		logging.Int("index", ev.Index),
		logging.String("value", ev.Value),
		logging.Duration("elapsed", ev.Elapsed))
}

func (l *LogObserver) RunFinished(info RunInfo, result RunResult, err error) {
	if err != nil {
		l.logger.Error("run failed", err,
			logging.String("run_id", info.RunID),
			logging.String("strategy", info.Strategy.String()),
			logging.Int64("elapsed_ms", result.ElapsedMilliseconds()))
		return
	}
	l.logger.Info("run finished",
		logging.String("run_id", info.RunID),
		logging.String("strategy", info.Strategy.String()),
		logging.String("values", result.Joined()),
		logging.Int64("elapsed_ms", result.ElapsedMilliseconds()))
}
