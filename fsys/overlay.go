// Package fsys assembles container root filesystems: overlayfs mounts,
// pivot_root, bind mounts with propagation, rootfs scaffolding, and named
// volumes, per spec §4.4.
package fsys

import (
	"fmt"
	"strings"

	mount "github.com/moby/sys/mount"

	"github.com/fishmindlab360/bock/bockerr"
)

// OverlaySpec describes one overlayfs assembly: lower is ordered top-first
// per overlayfs convention (lower[0] is the topmost read-only layer).
type OverlaySpec struct {
	Lower  []string
	Upper  string
	Work   string
	Merged string
}

// MountOverlay assembles lowerdir/upperdir/workdir into merged.
func MountOverlay(spec OverlaySpec) error {
	if len(spec.Lower) == 0 {
		return bockerr.New("fsys", bockerr.Config, "mount overlay: at least one lower layer is required", nil)
	}
	options := fmt.Sprintf("lowerdir=%s,upperdir=%s,workdir=%s",
		strings.Join(spec.Lower, ":"), spec.Upper, spec.Work)

	if err := mount.Mount("overlay", spec.Merged, "overlay", options); err != nil {
		return bockerr.New("fsys", bockerr.Io, "mount overlay at "+spec.Merged, err)
	}
	return nil
}

// UnmountOverlay detaches merged, tolerating busy mounts (MNT_DETACH), per
// spec §4.4's teardown contract.
func UnmountOverlay(merged string) error {
	if err := mount.Unmount(merged); err != nil {
		return bockerr.New("fsys", bockerr.Io, "unmount overlay at "+merged, err)
	}
	return nil
}
