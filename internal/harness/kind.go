package harness

import (
	"strings"

	apperrors "github.com/agbru/concurbench/internal/errors"
)

// Kind identifies one execution strategy.
type Kind int

const (
	// Sequential runs operations one after another on the caller.
	Sequential Kind = iota
	// ThreadPerTask dedicates one OS thread to each operation.
	ThreadPerTask
	// WorkerPool runs operations on a fixed number of long-lived workers.
	WorkerPool
	// StructuredJoin runs operations as futures joined by a combined wait.
	StructuredJoin
	// FireAndForget launches a structured join and returns a handle at once.
	FireAndForget
)

var kindNames = [...]string{"sequential", "threads", "pool", "parallel", "async"}

var kindTitles = [...]string{
	"Synchronous Operations!",
	"Threads!",
	"Diving Into Thread Pool!",
	"Parallel Tasks!",
	"Asynchronous Tasks!",
}

var kindAliases = map[string]Kind{
	"sync":            Sequential,
	"thread":          ThreadPerTask,
	"thread-per-task": ThreadPerTask,
	"worker-pool":     WorkerPool,
	"threadpool":      WorkerPool,
	"structured":      StructuredJoin,
	"structured-join": StructuredJoin,
	"tasks":           StructuredJoin,
	"fire-and-forget": FireAndForget,
}

// Kinds returns every strategy in menu order.
func Kinds() []Kind {
	return []Kind{Sequential, ThreadPerTask, WorkerPool, StructuredJoin, FireAndForget}
}

// String returns the short name of the strategy.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Title returns the heading printed before a run of this strategy.
func (k Kind) Title() string {
	if k < 0 || int(k) >= len(kindTitles) {
		return ""
	}
	return kindTitles[k]
}

// Blocking reports whether a run of this strategy blocks the caller until
// every operation has completed.
func (k Kind) Blocking() bool { return k != FireAndForget }

// ParseKind resolves a strategy from its short name, its menu digit ("1"
// through "5") or one of the long aliases. Matching is case-insensitive.
//
// Parameters:
//   - s: The user-supplied strategy name.
//
// Returns:
//   - Kind: The matching strategy.
//   - error: A ConfigError if s names no strategy.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if name == n {
			return Kind(i), nil
		}
	}
	if len(name) == 1 && name[0] >= '1' && name[0] <= '5' {
		return Kind(name[0] - '1'), nil
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return 0, apperrors.NewConfigError("unknown strategy %q (valid: %s)", s, strings.Join(kindNames[:], ", "))
}
