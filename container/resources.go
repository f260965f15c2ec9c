//go:build linux

package container

import (
	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/cgroup"
)

// resourcesFromSpec converts the runtime spec's linux.resources block into
// the shape cgroup.Manager.ApplyResources expects. A nil input yields a
// zero-value Resources, applying no limits.
func resourcesFromSpec(r *rspec.LinuxResources) cgroup.Resources {
	var out cgroup.Resources
	if r == nil {
		return out
	}

	if c := r.CPU; c != nil {
		cpu := &cgroup.CPU{}
		if c.Quota != nil {
			cpu.QuotaMicros = c.Quota
		}
		if c.Period != nil {
			cpu.PeriodMicros = c.Period
		}
		if c.Shares != nil {
			weight := sharesToWeight(*c.Shares)
			cpu.Weight = &weight
		}
		cpu.Cpus = c.Cpus
		out.CPU = cpu
	}

	if m := r.Memory; m != nil {
		mem := &cgroup.Memory{Max: m.Limit}
		if m.Swap != nil {
			mem.SwapMax = m.Swap
		}
		out.Memory = mem
	}

	if p := r.Pids; p != nil {
		out.Pids = &cgroup.Pids{Max: p.Limit}
	}

	if b := r.BlockIO; b != nil && b.Weight != nil {
		weight := *b.Weight
		out.IO = &cgroup.IO{Weight: &weight}
	}

	return out
}

// sharesToWeight rescales the cgroup v1 cpu.shares range (2-262144, default
// 1024) onto the cgroup v2 cpu.weight range (1-10000, default 100), per the
// kernel's documented conversion so a spec authored against cpu.shares still
// behaves sensibly under a v2 host.
func sharesToWeight(shares uint64) uint64 {
	if shares == 0 {
		return 100
	}
	weight := (((shares - 2) * 9999) / 262142) + 1
	if weight < 1 {
		weight = 1
	}
	if weight > 10000 {
		weight = 10000
	}
	return weight
}
