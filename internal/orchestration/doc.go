// Package orchestration runs the same batch of operations under several
// strategies, one after the other, and compares their outcomes. It decouples
// the comparison logic from presentation via the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
