package operation

import (
	"context"
	"time"

	"github.com/agbru/concurbench/internal/logging"
)

type logged struct {
	op     SlowOperation
	logger logging.Logger
}

// Logged decorates op so that the start and the end of every Compute call
// are written to logger as debug entries.
func Logged(op SlowOperation, logger logging.Logger) SlowOperation {
	if logger == nil {
		return op
	}
	return &logged{op: op, logger: logger}
}

// LoggedAll applies Logged to every operation of ops.
func LoggedAll(ops []SlowOperation, logger logging.Logger) []SlowOperation {
	out := make([]SlowOperation, len(ops))
	for i, op := range ops {
		out[i] = Logged(op, logger)
	}
	return out
}

func (l *logged) Name() string { return l.op.Name() }

func (l *logged) Compute(ctx context.Context) (string, error) {
	l.logger.Debug("operation starting", logging.String("op", l.op.Name()))
	start := time.Now()
	v, err := l.op.Compute(ctx)
	elapsed := time.Since(start)
	if err != nil {
		l.logger.Error("operation failed", err,
			logging.String("op", l.op.Name()),
			logging.Duration("elapsed", elapsed))
		return v, err
	}
	l.logger.Debug("operation returning",
		logging.String("op", l.op.Name()),
		logging.String("value", v),
		logging.Duration("elapsed", elapsed))
	return v, nil
}
