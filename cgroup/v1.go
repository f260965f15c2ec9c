package cgroup

import (
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	cgroup1 "github.com/containerd/cgroups/v3/cgroup1"

	"github.com/fishmindlab360/bock/bockerr"
)

func signalKill(pid int) error {
	return unix.Kill(pid, unix.SIGKILL)
}

// v1Manager is the cgroup v1 fallback, per spec §4.6: implementers may omit
// this path on modern kernels, but the module wires it anyway since the
// pack's cgroups library ships both hierarchies in one dependency.
type v1Manager struct {
	containerID string
	cg          cgroup1.Cgroup
}

func v1Path(containerID string) cgroup1.Path {
	return cgroup1.StaticPath("/bock/" + containerID)
}

func newV1Manager(containerID string) (Manager, error) {
	cg, err := cgroup1.New(v1Path(containerID), &specs.LinuxResources{})
	if err != nil {
		return nil, wrapPermissionErr("create v1 cgroup for "+containerID, err)
	}
	return &v1Manager{containerID: containerID, cg: cg}, nil
}

func (v *v1Manager) Path() string { return cgroupRoot + "/cpu/bock/" + v.containerID }

func (v *v1Manager) AddProcess(pid int) error {
	if err := v.cg.Add(cgroup1.Process{Pid: pid}); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "add process to v1 cgroup", err)
	}
	return nil
}

func (v *v1Manager) ApplyResources(r Resources) error {
	res := toLinuxResources(r)
	if err := v.cg.Update(res); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "apply v1 cgroup resources", err)
	}
	return nil
}

func toLinuxResources(r Resources) *specs.LinuxResources {
	res := &specs.LinuxResources{}
	if r.CPU != nil {
		cpu := &specs.LinuxCPU{}
		if r.CPU.QuotaMicros != nil {
			cpu.Quota = r.CPU.QuotaMicros
			period := uint64(100000)
			if r.CPU.PeriodMicros != nil {
				period = *r.CPU.PeriodMicros
			}
			cpu.Period = &period
		}
		if r.CPU.Weight != nil {
			shares := *r.CPU.Weight
			cpu.Shares = &shares
		}
		if r.CPU.Cpus != "" {
			cpu.Cpus = r.CPU.Cpus
		}
		res.CPU = cpu
	}
	if r.Memory != nil {
		res.Memory = &specs.LinuxMemory{
			Limit: r.Memory.Max,
		}
	}
	if r.Pids != nil {
		res.Pids = &specs.LinuxPids{Limit: r.Pids.Max}
	}
	return res
}

func (v *v1Manager) Freeze() error {
	if err := v.cg.Freeze(); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "freeze v1 cgroup", err)
	}
	return nil
}

func (v *v1Manager) Unfreeze() error {
	if err := v.cg.Thaw(); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "unfreeze v1 cgroup", err)
	}
	return nil
}

// KillAll has no atomic cgroup.kill equivalent under v1; it signals every
// process in the cgroup with SIGKILL instead.
func (v *v1Manager) KillAll() error {
	if err := v.cg.Freeze(); err == nil {
		defer v.cg.Thaw()
	}
	procs, err := v.cg.Processes(cgroup1.Devices, true)
	if err != nil {
		return bockerr.New("cgroup", bockerr.Io, "list v1 cgroup processes", err)
	}
	for _, p := range procs {
		_ = signalKill(p.Pid)
	}
	return nil
}

func (v *v1Manager) Stats() (Stats, error) {
	metrics, err := v.cg.Stat()
	if err != nil {
		return Stats{}, bockerr.New("cgroup", bockerr.Io, "read v1 cgroup stats", err)
	}
	s := Stats{}
	if metrics.Memory != nil && metrics.Memory.Usage != nil {
		s.MemoryCurrentBytes = metrics.Memory.Usage.Usage
	}
	if metrics.CPU != nil && metrics.CPU.Usage != nil {
		s.CPUUsageUsec = metrics.CPU.Usage.Total / 1000
	}
	return s, nil
}

func (v *v1Manager) Delete() error {
	if err := v.cg.Delete(); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "delete v1 cgroup", err)
	}
	return nil
}
