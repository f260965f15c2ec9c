//go:build linux

package container

import (
	"testing"

	rspec "github.com/opencontainers/runtime-spec/specs-go"
)

func TestResourcesFromSpecNilReturnsZeroValue(t *testing.T) {
	r := resourcesFromSpec(nil)
	if r.CPU != nil || r.Memory != nil || r.Pids != nil || r.IO != nil {
		t.Errorf("expected zero-value Resources, got %+v", r)
	}
}

func TestResourcesFromSpecTranslatesMemoryAndPids(t *testing.T) {
	limit := int64(512 * 1024 * 1024)
	pidsLimit := int64(100)
	spec := &rspec.LinuxResources{
		Memory: &rspec.LinuxMemory{Limit: &limit},
		Pids:   &rspec.LinuxPids{Limit: pidsLimit},
	}
	r := resourcesFromSpec(spec)
	if r.Memory == nil || *r.Memory.Max != limit {
		t.Fatalf("Memory = %+v", r.Memory)
	}
	if r.Pids == nil || r.Pids.Max != pidsLimit {
		t.Fatalf("Pids = %+v", r.Pids)
	}
}

func TestSharesToWeightClampsToV2Range(t *testing.T) {
	if w := sharesToWeight(0); w != 100 {
		t.Errorf("sharesToWeight(0) = %d, want 100 (v2 default)", w)
	}
	if w := sharesToWeight(2); w != 1 {
		t.Errorf("sharesToWeight(2) = %d, want 1 (minimum)", w)
	}
	if w := sharesToWeight(262144); w > 10000 {
		t.Errorf("sharesToWeight(262144) = %d, want <= 10000", w)
	}
}
