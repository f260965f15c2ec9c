//go:build linux

package fsys

import (
	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
)

// BindMount binds source onto target and makes the result PRIVATE, then, if
// readonly is requested, issues the mandatory second remount carrying
// MS_BIND|MS_RDONLY — the kernel ignores MS_RDONLY on the initial bind, per
// spec §4.4.
func BindMount(source, target string, readonly bool) error {
	if err := unix.Mount(source, target, "", unix.MS_BIND, ""); err != nil {
		return bockerr.New("fsys", bockerr.Io, "bind mount "+source+" onto "+target, err)
	}
	if err := unix.Mount("", target, "", unix.MS_PRIVATE, ""); err != nil {
		return bockerr.New("fsys", bockerr.Io, "make bind mount private: "+target, err)
	}
	if readonly {
		if err := unix.Mount("", target, "", unix.MS_BIND|unix.MS_REMOUNT|unix.MS_RDONLY, ""); err != nil {
			return bockerr.New("fsys", bockerr.Io, "remount read-only: "+target, err)
		}
	}
	return nil
}

// Unmount detaches target, tolerating busy mounts.
func Unmount(target string) error {
	if err := unix.Unmount(target, unix.MNT_DETACH); err != nil {
		return bockerr.New("fsys", bockerr.Io, "unmount "+target, err)
	}
	return nil
}
