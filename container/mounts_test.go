//go:build linux

package container

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestMountFlagsAndDataSeparatesFlagsFromData(t *testing.T) {
	flags, data := mountFlagsAndData([]string{"rbind", "ro", "size=64m"})
	want := uintptr(unix.MS_BIND | unix.MS_REC | unix.MS_RDONLY)
	if flags != want {
		t.Errorf("flags = %#x, want %#x", flags, want)
	}
	if data != "size=64m" {
		t.Errorf("data = %q, want %q", data, "size=64m")
	}
}

func TestMountFlagsAndDataHandlesNoOptions(t *testing.T) {
	flags, data := mountFlagsAndData(nil)
	if flags != 0 || data != "" {
		t.Errorf("got (%#x, %q), want (0, \"\")", flags, data)
	}
}

func TestIsReadonlyDetectsRoOption(t *testing.T) {
	if !isReadonly([]string{"bind", "ro"}) {
		t.Error("expected ro detected")
	}
	if isReadonly([]string{"bind", "rw"}) {
		t.Error("expected rw not flagged read-only")
	}
}

func TestIsBindDetectsBindAndRbind(t *testing.T) {
	if !isBind([]string{"bind"}) {
		t.Error("expected bind detected")
	}
	if !isBind([]string{"rbind"}) {
		t.Error("expected rbind detected")
	}
	if isBind([]string{"ro"}) {
		t.Error("expected non-bind options not flagged")
	}
}
