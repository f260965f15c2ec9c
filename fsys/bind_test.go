//go:build linux

package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBindMountRequiresPrivilege(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("this test only documents the non-root failure path")
	}
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "target")
	if err := os.MkdirAll(dst, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := BindMount(src, dst, false); err == nil {
		t.Fatal("expected bind mount to fail without CAP_SYS_ADMIN")
	}
}
