package metrics

import (
	"runtime"
	"runtime/pprof"
)

// RuntimeSnapshot holds a point-in-time reading of the Go runtime.
type RuntimeSnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	Goroutines   int    // live goroutines
	// ThreadsCreated counts OS threads ever created by the runtime. It grows
	// under the threads strategy because locked threads exit with their
	// goroutine and are not reused.
	ThreadsCreated int
}

// RuntimeSampler reads runtime statistics.
type RuntimeSampler struct {
	threads *pprof.Profile
}

// NewRuntimeSampler creates a new runtime sampler.
func NewRuntimeSampler() *RuntimeSampler {
	return &RuntimeSampler{threads: pprof.Lookup("threadcreate")}
}

// Snapshot reads current runtime statistics.
func (rs *RuntimeSampler) Snapshot() RuntimeSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	snap := RuntimeSnapshot{
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	}
	if rs.threads != nil {
		snap.ThreadsCreated = rs.threads.Count()
	}
	return snap
}
