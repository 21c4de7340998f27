package harness

import (
	"fmt"
	"sync"
	"time"

	"github.com/agbru/concurbench/internal/operation"
)

// delays returns operations with the given latencies yielding "1", "2", ...
func delays(latencies ...time.Duration) []operation.SlowOperation {
	ops := make([]operation.SlowOperation, len(latencies))
	for i, d := range latencies {
		ops[i] = operation.Delay{Label: fmt.Sprintf("op-%d", i+1), Latency: d, Value: fmt.Sprintf("%d", i+1)}
	}
	return ops
}

func blockingKinds() []Kind {
	return []Kind{Sequential, ThreadPerTask, WorkerPool, StructuredJoin}
}

// recorder is an Observer capturing every event.
type recorder struct {
	mu       sync.Mutex
	runs     []RunInfo
	started  []OperationEvent
	finished []OperationEvent
	results  []RunResult
	errs     []error
}

func (r *recorder) RunStarted(info RunInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, info)
}

func (r *recorder) OperationStarted(ev OperationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, ev)
}

func (r *recorder) OperationFinished(ev OperationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, ev)
}

func (r *recorder) RunFinished(_ RunInfo, res RunResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	r.errs = append(r.errs, err)
}

func (r *recorder) counts() (runs, started, finished, done int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs), len(r.started), len(r.finished), len(r.results)
}
