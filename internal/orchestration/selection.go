package orchestration

import (
	"github.com/agbru/concurbench/internal/harness"
)

// KindsToRun determines which strategies should be executed for a selection.
// "all" (or an empty selection) returns every strategy in menu order;
// anything else must name a single strategy.
//
// Parameters:
//   - selection: The strategy name, menu digit or "all".
//
// Returns:
//   - []harness.Kind: The strategies to run.
//   - error: A ConfigError if the selection names no strategy.
func KindsToRun(selection string) ([]harness.Kind, error) {
	if selection == "" || selection == "all" {
		return harness.Kinds(), nil
	}
	k, err := harness.ParseKind(selection)
	if err != nil {
		return nil, err
	}
	return []harness.Kind{k}, nil
}
