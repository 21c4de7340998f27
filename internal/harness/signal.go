package harness

import (
	"sync"
	"sync/atomic"
)

// SignalState is the state of a CompletionSignal.
type SignalState int32

const (
	// Pending means the operation has not finished yet.
	Pending SignalState = iota
	// Signaled means the operation has finished, successfully or not.
	Signaled
)

func (s SignalState) String() string {
	if s == Signaled {
		return "signaled"
	}
	return "pending"
}

// CompletionSignal is a one-shot flag that moves from Pending to Signaled
// exactly once and never back.
type CompletionSignal struct {
	once  sync.Once
	state atomic.Int32
	done  chan struct{}
}

// NewCompletionSignal returns a signal in the Pending state.
func NewCompletionSignal() *CompletionSignal {
	return &CompletionSignal{done: make(chan struct{})}
}

// Signal marks the signal as Signaled. Only the first call has an effect.
// It reports whether this call performed the transition.
func (s *CompletionSignal) Signal() bool {
	fired := false
	s.once.Do(func() {
		s.state.Store(int32(Signaled))
		close(s.done)
		fired = true
	})
	return fired
}

// Done returns a channel that is closed once the signal fires.
func (s *CompletionSignal) Done() <-chan struct{} { return s.done }

// State returns the current state.
func (s *CompletionSignal) State() SignalState { return SignalState(s.state.Load()) }
