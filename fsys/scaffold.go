package fsys

import (
	"os"
	"path/filepath"

	"github.com/fishmindlab360/bock/bockerr"
)

const defaultResolvConf = "nameserver 8.8.8.8\n"

// scaffoldDirs are the top-level directories every rootfs gets, per §4.4.
var scaffoldDirs = []string{"dev", "proc", "sys", "tmp", "etc", "var", "run"}

// devSymlinks are the /dev/fd and /dev/std{in,out,err} symlinks every
// rootfs gets, pointing at the process's own fd table via /proc/self.
var devSymlinks = map[string]string{
	"fd":     "/proc/self/fd",
	"stdin":  "/proc/self/fd/0",
	"stdout": "/proc/self/fd/1",
	"stderr": "/proc/self/fd/2",
}

// devDirs are the directories created (not mounted) under dev/ by
// scaffolding; devpts and shm are mounted over these by the caller.
var devDirs = []string{"pts", "shm"}

// Scaffold creates the standard directory/symlink/file set described in
// spec §4.4 under rootfs, without touching anything that already exists
// (idempotent re-entry on container restart).
func Scaffold(rootfs string) error {
	for _, d := range scaffoldDirs {
		if err := os.MkdirAll(filepath.Join(rootfs, d), 0o755); err != nil {
			return bockerr.New("fsys", bockerr.Io, "create rootfs dir "+d, err)
		}
	}

	devDir := filepath.Join(rootfs, "dev")
	for _, d := range devDirs {
		if err := os.MkdirAll(filepath.Join(devDir, d), 0o755); err != nil {
			return bockerr.New("fsys", bockerr.Io, "create /dev/"+d, err)
		}
	}
	for name, target := range devSymlinks {
		link := filepath.Join(devDir, name)
		if _, err := os.Lstat(link); err == nil {
			continue
		}
		if err := os.Symlink(target, link); err != nil {
			return bockerr.New("fsys", bockerr.Io, "symlink /dev/"+name, err)
		}
	}

	if err := writeIfAbsent(filepath.Join(rootfs, "etc", "resolv.conf"), defaultResolvConf); err != nil {
		return err
	}
	if err := writeIfAbsent(filepath.Join(rootfs, "etc", "hostname"), "container\n"); err != nil {
		return err
	}
	return nil
}

func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return bockerr.New("fsys", bockerr.Io, "create parent dir for "+path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return bockerr.New("fsys", bockerr.Io, "write "+path, err)
	}
	return nil
}
