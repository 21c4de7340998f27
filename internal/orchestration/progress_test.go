package orchestration

import (
	"sync"
	"testing"

	"github.com/agbru/concurbench/internal/harness"
)

func TestNewProgressAggregator_Positive(t *testing.T) {
	agg := NewProgressAggregator(3)
	if agg == nil {
		t.Fatal("expected non-nil aggregator for numOperations=3")
	}
	if agg.NumOperations() != 3 {
		t.Errorf("expected NumOperations()=3, got %d", agg.NumOperations())
	}
	if !agg.IsMultiOperation() {
		t.Error("expected IsMultiOperation()=true for 3 operations")
	}
}

func TestNewProgressAggregator_Single(t *testing.T) {
	agg := NewProgressAggregator(1)
	if agg == nil {
		t.Fatal("expected non-nil aggregator for numOperations=1")
	}
	if agg.IsMultiOperation() {
		t.Error("expected IsMultiOperation()=false for 1 operation")
	}
}

func TestNewProgressAggregator_Zero(t *testing.T) {
	if agg := NewProgressAggregator(0); agg != nil {
		t.Error("expected nil aggregator for numOperations=0")
	}
	if agg := NewProgressAggregator(-1); agg != nil {
		t.Error("expected nil aggregator for numOperations=-1")
	}
}

func TestProgressAggregator_Update(t *testing.T) {
	agg := NewProgressAggregator(2)

	ap := agg.Update(ProgressUpdate{Index: 0, Value: 1, Strategy: harness.WorkerPool})
	if ap.Index != 0 || ap.Strategy != harness.WorkerPool {
		t.Errorf("unexpected update identity: %+v", ap)
	}
	if ap.Value != 1 {
		t.Errorf("expected Value=1, got %f", ap.Value)
	}
	// Average of [1, 0] = 0.5
	if ap.AverageProgress != 0.5 {
		t.Errorf("expected AverageProgress=0.5, got %f", ap.AverageProgress)
	}

	ap = agg.Update(ProgressUpdate{Index: 1, Value: 1})
	if ap.AverageProgress != 1 {
		t.Errorf("expected AverageProgress=1, got %f", ap.AverageProgress)
	}
	if ap.ETA != 0 {
		t.Errorf("expected no ETA once complete, got %v", ap.ETA)
	}
}

func TestProgressAggregator_CalculateAverage(t *testing.T) {
	agg := NewProgressAggregator(4)

	if avg := agg.CalculateAverage(); avg != 0.0 {
		t.Errorf("expected initial average=0.0, got %f", avg)
	}

	agg.Update(ProgressUpdate{Index: 2, Value: 1.0})
	if avg := agg.CalculateAverage(); avg != 0.25 {
		t.Errorf("expected average=0.25 after one update, got %f", avg)
	}
}

func TestProgressAggregator_GetETA(t *testing.T) {
	agg := NewProgressAggregator(1)

	// Initially ETA should be 0 (not enough data)
	if eta := agg.GetETA(); eta != 0 {
		t.Errorf("expected initial ETA=0, got %v", eta)
	}
}

func TestDrainChannel(t *testing.T) {
	ch := make(chan ProgressUpdate, 5)
	ch <- ProgressUpdate{Index: 0, Value: 1}
	ch <- ProgressUpdate{Index: 1, Value: 1}
	close(ch)

	DrainChannel(ch)
	// If we reach here without deadlock, the test passes
}

func TestProgressObserver_Offset(t *testing.T) {
	sink := newProgressSink(1)
	sink.begin(1)
	obs := progressObserver{sink: sink, entry: 1, offset: 3}
	obs.OperationFinished(harness.OperationEvent{Index: 2, Strategy: harness.ThreadPerTask})
	u := <-sink.ch
	if u.Index != 5 || u.Strategy != harness.ThreadPerTask {
		t.Errorf("unexpected update %+v", u)
	}
	// A full channel must not block the worker.
	obs.OperationFinished(harness.OperationEvent{Index: 0})
	obs.OperationFinished(harness.OperationEvent{Index: 1})
}

func TestProgressSink_DropsLateUpdates(t *testing.T) {
	t.Parallel()
	sink := newProgressSink(4)
	first := progressObserver{sink: sink, entry: 0}
	second := progressObserver{sink: sink, entry: 1, offset: 2}

	first.OperationFinished(harness.OperationEvent{Index: 0})
	sink.begin(1)
	// A straggler of the first entry finishing during the second.
	first.OperationFinished(harness.OperationEvent{Index: 1})
	second.OperationFinished(harness.OperationEvent{Index: 0})
	sink.close()
	sink.close()
	// Stragglers finishing after the comparison returned.
	first.OperationFinished(harness.OperationEvent{Index: 1})
	second.OperationFinished(harness.OperationEvent{Index: 1})

	var got []int
	for u := range sink.ch {
		got = append(got, u.Index)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("forwarded indexes = %v, want [0 2]", got)
	}
}

func TestProgressSink_ConcurrentClose(t *testing.T) {
	t.Parallel()
	sink := newProgressSink(1)
	obs := progressObserver{sink: sink}
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				obs.OperationFinished(harness.OperationEvent{Index: i})
			}
		}()
	}
	go DrainChannel(sink.ch)
	sink.close()
	wg.Wait()
}
