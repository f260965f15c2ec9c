package cgroup

import (
	cgroup2 "github.com/containerd/cgroups/v3/cgroup2"

	"github.com/fishmindlab360/bock/bockerr"
)

// v2Manager wraps containerd/cgroups' cgroup2.Manager so bock's
// Create/Start/Pause/Resume/Kill/Delete path talks to one Manager interface
// regardless of host cgroup version.
type v2Manager struct {
	containerID string
	path        string // relative to the cgroup2 mountpoint, e.g. "/bock/<id>"
	m           *cgroup2.Manager
}

func newV2Manager(containerID string) (Manager, error) {
	group := "/bock/" + containerID
	m, err := cgroup2.NewManager(cgroupRoot, group, &cgroup2.Resources{})
	if err != nil {
		return nil, wrapPermissionErr("create cgroup "+group, err)
	}
	return &v2Manager{containerID: containerID, path: group, m: m}, nil
}

func (v *v2Manager) Path() string { return cgroupRoot + v.path }

func (v *v2Manager) AddProcess(pid int) error {
	if err := v.m.AddProc(uint64(pid)); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "add process to cgroup", err)
	}
	return nil
}

func (v *v2Manager) ApplyResources(r Resources) error {
	res := &cgroup2.Resources{}

	if r.CPU != nil {
		cpu := &cgroup2.CPU{Weight: r.CPU.Weight}
		if r.CPU.QuotaMicros != nil {
			period := uint64(100000)
			if r.CPU.PeriodMicros != nil {
				period = *r.CPU.PeriodMicros
			}
			cpu.Max = cgroup2.NewCPUMax(r.CPU.QuotaMicros, &period)
		}
		if r.CPU.Cpus != "" {
			cpu.Cpus = r.CPU.Cpus
		}
		res.CPU = cpu
	}

	if r.Memory != nil {
		res.Memory = &cgroup2.Memory{
			Max:  r.Memory.Max,
			High: r.Memory.High,
			Low:  r.Memory.Low,
			Swap: r.Memory.SwapMax,
		}
	}

	if r.Pids != nil {
		res.Pids = &cgroup2.Pids{Max: r.Pids.Max}
	}

	if err := v.m.Update(res); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "apply cgroup resources", err)
	}

	if r.IO != nil {
		if err := applyIOv2(v.Path(), r.IO); err != nil {
			return err
		}
	}
	return nil
}

func (v *v2Manager) Freeze() error {
	if err := v.m.Freeze(); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "freeze cgroup", err)
	}
	return nil
}

func (v *v2Manager) Unfreeze() error {
	if err := v.m.Thaw(); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "unfreeze cgroup", err)
	}
	return nil
}

// KillAll writes 1 to cgroup.kill, delivering SIGKILL to every member
// atomically, per spec §4.6.
func (v *v2Manager) KillAll() error {
	if err := v.m.Kill(); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "kill cgroup", err)
	}
	return nil
}

func (v *v2Manager) Stats() (Stats, error) {
	metrics, err := v.m.Stat()
	if err != nil {
		return Stats{}, bockerr.New("cgroup", bockerr.Io, "read cgroup stats", err)
	}
	s := Stats{}
	if metrics.Memory != nil {
		s.MemoryCurrentBytes = metrics.Memory.Usage
	}
	if metrics.CPU != nil {
		s.CPUUsageUsec = metrics.CPU.UsageUsec
		s.CPUUserUsec = metrics.CPU.UserUsec
		s.CPUSystemUsec = metrics.CPU.SystemUsec
	}
	return s, nil
}

func (v *v2Manager) Delete() error {
	if err := v.m.Delete(); err != nil {
		return bockerr.New("cgroup", bockerr.Io, "delete cgroup", err)
	}
	return nil
}
