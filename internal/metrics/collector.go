package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/concurbench/internal/harness"
)

const namespace = "concurbench"

// Collector is a harness.Observer that records runs and operations as
// Prometheus metrics labelled by strategy.
type Collector struct {
	harness.NopObserver

	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	operations  *prometheus.CounterVec
	opDuration  *prometheus.HistogramVec
	inFlight    *prometheus.GaugeVec
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg registers nothing, which is useful in tests that read the
// metrics directly.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed strategy runs by outcome.",
		}, []string{"strategy", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock time of a strategy run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"strategy"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Finished operations by outcome.",
		}, []string{"strategy", "outcome"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time spent inside a single operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "operations_in_flight",
			Help:      "Operations started but not yet finished.",
		}, []string{"strategy"}),
	}
	if reg == nil {
		return c, nil
	}
	var err error
	if c.runs, err = register(reg, c.runs); err != nil {
		return nil, err
	}
	if c.runDuration, err = register(reg, c.runDuration); err != nil {
		return nil, err
	}
	if c.operations, err = register(reg, c.operations); err != nil {
		return nil, err
	}
	if c.opDuration, err = register(reg, c.opDuration); err != nil {
		return nil, err
	}
	if c.inFlight, err = register(reg, c.inFlight); err != nil {
		return nil, err
	}
	return c, nil
}

// register adds col to reg. When an identical collector is already
// registered the existing one is returned so several Collectors can share a
// registry.
func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return col, err
	}
	return col, nil
}

func (c *Collector) OperationStarted(ev harness.OperationEvent) {
	c.inFlight.WithLabelValues(ev.Strategy.String()).Inc()
}

func (c *Collector) OperationFinished(ev harness.OperationEvent) {
	strategy := ev.Strategy.String()
	c.inFlight.WithLabelValues(strategy).Dec()
	c.operations.WithLabelValues(strategy, outcome(ev.Err)).Inc()
	c.opDuration.WithLabelValues(strategy).Observe(ev.Elapsed.Seconds())
}

func (c *Collector) RunFinished(info harness.RunInfo, result harness.RunResult, err error) {
	strategy := info.Strategy.String()
	c.runs.WithLabelValues(strategy, outcome(err)).Inc()
	c.runDuration.WithLabelValues(strategy).Observe(result.Elapsed().Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
