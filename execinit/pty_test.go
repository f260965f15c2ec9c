//go:build linux

package execinit

import "testing"

func TestAllocatePTY(t *testing.T) {
	pair, err := AllocatePTY()
	if err != nil {
		t.Skipf("pty allocation unavailable in this environment: %v", err)
	}
	defer pair.Close()

	if pair.SlavePath() == "" {
		t.Error("expected a non-empty slave path")
	}
}

func TestPtyResize(t *testing.T) {
	pair, err := AllocatePTY()
	if err != nil {
		t.Skipf("pty allocation unavailable in this environment: %v", err)
	}
	defer pair.Close()

	if err := pair.Resize(40, 120); err != nil {
		t.Errorf("Resize: %v", err)
	}
}
