//go:build linux

package container

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBundleSpecRequiresConfigJSON(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadBundleSpec(dir); err == nil {
		t.Fatal("expected error with no config.json present")
	}
}

func TestLoadBundleSpecParsesConfigJSON(t *testing.T) {
	dir := t.TempDir()
	config := `{"ociVersion":"1.2.0","process":{"args":["/bin/true"]}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(config), 0o640); err != nil {
		t.Fatalf("write config.json: %v", err)
	}
	spec, err := loadBundleSpec(dir)
	if err != nil {
		t.Fatalf("loadBundleSpec: %v", err)
	}
	if len(spec.Process.Args) != 1 || spec.Process.Args[0] != "/bin/true" {
		t.Errorf("Process.Args = %v", spec.Process.Args)
	}
}

func TestMountStandardFilesystemsRequiresPrivilege(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("this test only documents the non-root failure path")
	}
	dir := t.TempDir()
	for _, sub := range []string{"proc", "dev/pts", "dev/shm", "sys"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
	}
	if err := mountStandardFilesystems(dir); err == nil {
		t.Fatal("expected mount(2) to fail without CAP_SYS_ADMIN")
	}
}
