//go:build linux

package fsys

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
)

// MakePrivate, MakeShared, and MakeSlave change a mount's propagation type
// without moving it, per spec §4.4's propagation helpers.
func MakePrivate(path string) error { return setPropagation(path, unix.MS_PRIVATE) }
func MakeShared(path string) error  { return setPropagation(path, unix.MS_SHARED) }
func MakeSlave(path string) error   { return setPropagation(path, unix.MS_SLAVE) }

func setPropagation(path string, flag uintptr) error {
	if err := unix.Mount("", path, "", flag|unix.MS_REC, ""); err != nil {
		return bockerr.New("fsys", bockerr.Io, "set propagation on "+path, err)
	}
	return nil
}

// PivotRoot performs the five-step procedure from spec §4.4: make / private
// recursively, bind newRoot onto itself so the kernel treats it as a mount
// point, pivot_root, chdir to the new /, then detach and remove the old
// root's mountpoint.
func PivotRoot(newRoot string) error {
	if err := MakePrivate("/"); err != nil {
		return err
	}

	if err := unix.Mount(newRoot, newRoot, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return bockerr.New("fsys", bockerr.Io, "bind mount new root onto itself", err)
	}

	putOld := filepath.Join(newRoot, ".put_old")
	if err := os.MkdirAll(putOld, 0o700); err != nil {
		return bockerr.New("fsys", bockerr.Io, "create .put_old", err)
	}

	if err := unix.PivotRoot(newRoot, putOld); err != nil {
		return bockerr.New("fsys", bockerr.Io, "pivot_root", err)
	}

	if err := unix.Chdir("/"); err != nil {
		return bockerr.New("fsys", bockerr.Io, "chdir to new root", err)
	}

	if err := unix.Unmount("/.put_old", unix.MNT_DETACH); err != nil {
		return bockerr.New("fsys", bockerr.Io, "detach old root", err)
	}
	if err := os.Remove("/.put_old"); err != nil {
		return bockerr.New("fsys", bockerr.Io, "remove .put_old", err)
	}
	return nil
}
