package fsys

import (
	"os"
	"testing"
)

func TestMountOverlayRequiresLowerLayers(t *testing.T) {
	err := MountOverlay(OverlaySpec{Upper: "/tmp/upper", Work: "/tmp/work", Merged: "/tmp/merged"})
	if err == nil {
		t.Fatal("expected error when no lower layers are given")
	}
}

func TestMountOverlayRequiresRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("this test only documents the non-root failure path")
	}
	dir := t.TempDir()
	err := MountOverlay(OverlaySpec{
		Lower:  []string{dir},
		Upper:  dir,
		Work:   dir,
		Merged: dir,
	})
	if err == nil {
		t.Fatal("expected mount(2) to fail without CAP_SYS_ADMIN")
	}
}
