package cgroup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fishmindlab360/bock/bockerr"
)

// applyIOv2 writes io.weight and one io.max line per device limit, per
// spec §4.6. containerd/cgroups' typed Resources doesn't model the
// per-device io.max tuple grammar directly, so these are written raw.
func applyIOv2(path string, io *IO) error {
	if io.Weight != nil {
		if err := os.WriteFile(filepath.Join(path, "io.weight"), []byte(fmt.Sprintf("default %d", *io.Weight)), 0o644); err != nil {
			return bockerr.New("cgroup", bockerr.Io, "write io.weight", err)
		}
	}
	for _, l := range io.Limits {
		line := l.Device
		if l.RBps != nil {
			line += fmt.Sprintf(" rbps=%d", *l.RBps)
		}
		if l.WBps != nil {
			line += fmt.Sprintf(" wbps=%d", *l.WBps)
		}
		if l.RIops != nil {
			line += fmt.Sprintf(" riops=%d", *l.RIops)
		}
		if l.WIops != nil {
			line += fmt.Sprintf(" wiops=%d", *l.WIops)
		}
		if err := os.WriteFile(filepath.Join(path, "io.max"), []byte(line), 0o644); err != nil {
			return bockerr.New("cgroup", bockerr.Io, "write io.max for "+l.Device, err)
		}
	}
	return nil
}
