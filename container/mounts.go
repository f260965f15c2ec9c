//go:build linux

package container

import (
	"strings"

	"golang.org/x/sys/unix"
)

// mountOptionFlags maps the subset of rspec.Mount.Options strings bock
// recognizes to their MS_* mount flag, per spec §4.4's mount processing
// step. Options absent from this table are passed through as the comma
// joined data string handed to mount(2) (e.g. filesystem-specific options
// like "size=64m").
var mountOptionFlags = map[string]uintptr{
	"bind":        unix.MS_BIND,
	"rbind":       unix.MS_BIND | unix.MS_REC,
	"ro":          unix.MS_RDONLY,
	"rw":          0,
	"nosuid":      unix.MS_NOSUID,
	"nodev":       unix.MS_NODEV,
	"noexec":      unix.MS_NOEXEC,
	"relatime":    unix.MS_RELATIME,
	"strictatime": unix.MS_STRICTATIME,
	"remount":     unix.MS_REMOUNT,
	"private":     unix.MS_PRIVATE,
	"shared":      unix.MS_SHARED,
	"slave":       unix.MS_SLAVE,
	"unbindable":  unix.MS_UNBINDABLE,
}

// mountFlagsAndData splits an OCI mount's Options into the MS_* flag bits
// mount(2) expects and the leftover comma-joined data string (e.g.
// "size=64m,mode=1777") passed as its final argument.
func mountFlagsAndData(options []string) (flags uintptr, data string) {
	var extra []string
	for _, opt := range options {
		if f, ok := mountOptionFlags[opt]; ok {
			flags |= f
			continue
		}
		extra = append(extra, opt)
	}
	return flags, strings.Join(extra, ",")
}

// isReadonly reports whether options request a read-only mount, used to
// decide whether the mandatory second MS_REMOUNT|MS_RDONLY pass is needed
// since the kernel ignores MS_RDONLY on a bind mount's initial pass.
func isReadonly(options []string) bool {
	for _, opt := range options {
		if opt == "ro" {
			return true
		}
	}
	return false
}

// isBind reports whether options request a bind or rbind mount.
func isBind(options []string) bool {
	for _, opt := range options {
		if opt == "bind" || opt == "rbind" {
			return true
		}
	}
	return false
}
