// Package harness runs a fixed batch of slow operations under interchangeable
// concurrency strategies and reports the index-stable results together with
// the wall-clock time each strategy took.
//
// Five strategies are provided:
//
//   - Sequential runs every operation on the calling goroutine, in order.
//   - ThreadPerTask starts one goroutine per operation, each locked to its own
//     OS thread, and blocks until every completion signal fires.
//   - WorkerPool drains a FIFO queue of work items with K long-lived workers.
//   - StructuredJoin starts one Future per operation and joins them with an
//     errgroup, failing fast on the first error (or collecting every outcome).
//   - FireAndForget starts a structured join in the background and returns a
//     Handle immediately; the caller decides if and when to wait on it.
//
// Every run owns a Batch: a write-once slot per operation and a one-shot
// CompletionSignal per slot. Workers receive their destination index
// explicitly and only ever write their own slot, so assembly needs no locks;
// a slot is read only after its signal has fired.
package harness
