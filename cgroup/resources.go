// Package cgroup manages a container's cgroup v2 (with a v1 fallback):
// process membership, resource limits, freeze/thaw, kill-all, and stats,
// per spec §4.6.
package cgroup

// CPU mirrors the runtime-spec linux.resources.cpu block bock actually
// consumes: quota/period for cpu.max, weight for cpu.weight, cpus for
// cpuset.cpus.
type CPU struct {
	QuotaMicros *int64
	PeriodMicros *uint64
	Weight       *uint64
	Cpus         string
}

// Memory mirrors linux.resources.memory.
type Memory struct {
	Max     *int64
	High    *int64
	Low     *int64
	SwapMax *int64
}

// Pids mirrors linux.resources.pids.
type Pids struct {
	Max int64
}

// IOLimit is one (device, metric, value) tuple from linux.resources.blockIO,
// rendered as a single io.max line per spec §4.6.
type IOLimit struct {
	Device string
	RBps   *uint64
	WBps   *uint64
	RIops  *uint64
	WIops  *uint64
}

// IO mirrors linux.resources.blockIO.
type IO struct {
	Weight *uint16
	Limits []IOLimit
}

// Resources is the resource set applied to a container's cgroup on create
// and on any later resize.
type Resources struct {
	CPU    *CPU
	Memory *Memory
	Pids   *Pids
	IO     *IO
}

// Stats is the subset of cgroup accounting bock surfaces via `bock stats`.
type Stats struct {
	MemoryCurrentBytes uint64
	CPUUsageUsec       uint64
	CPUUserUsec        uint64
	CPUSystemUsec      uint64
}
