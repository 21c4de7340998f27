// Package sysmon samples system-wide CPU and memory usage together with the
// OS thread count and resident memory of the running process. The dashboard
// shows these beside each run so the cost of one-thread-per-task is visible.
package sysmon

import (
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of resource usage.
type Stats struct {
	CPUPercent float64 // system-wide, 0.0 .. 100.0
	MemPercent float64 // system-wide, 0.0 .. 100.0
	Threads    int32   // OS threads of this process
	RSS        uint64  // resident set size of this process, in bytes
}

// Sampler reads Stats for the current process.
type Sampler struct {
	proc *process.Process
}

// NewSampler returns a Sampler bound to the current process. When the
// process cannot be inspected the sampler still reports system-wide values.
func NewSampler() *Sampler {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		p = nil
	}
	return &Sampler{proc: p}
}

// Sample collects a single snapshot. CPU uses interval=0 (delta since last
// call). Fields that cannot be read are left at zero.
func (s *Sampler) Sample() Stats {
	st := Sample()
	if s == nil || s.proc == nil {
		return st
	}
	if n, err := s.proc.NumThreads(); err == nil {
		st.Threads = n
	}
	if mi, err := s.proc.MemoryInfo(); err == nil && mi != nil {
		st.RSS = mi.RSS
	}
	return st
}

// Sample collects a single system-wide CPU and memory snapshot.
// Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}
