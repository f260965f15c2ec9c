package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScaffoldCreatesExpectedTree(t *testing.T) {
	root := t.TempDir()
	if err := Scaffold(root); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	for _, d := range []string{"dev", "proc", "sys", "tmp", "etc", "var", "run", "dev/pts", "dev/shm"} {
		info, err := os.Stat(filepath.Join(root, d))
		if err != nil {
			t.Fatalf("expected dir %s: %v", d, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
	}

	for name, want := range devSymlinks {
		got, err := os.Readlink(filepath.Join(root, "dev", name))
		if err != nil {
			t.Fatalf("readlink dev/%s: %v", name, err)
		}
		if got != want {
			t.Errorf("dev/%s -> %q, want %q", name, got, want)
		}
	}

	resolv, err := os.ReadFile(filepath.Join(root, "etc", "resolv.conf"))
	if err != nil {
		t.Fatalf("resolv.conf: %v", err)
	}
	if string(resolv) != defaultResolvConf {
		t.Errorf("resolv.conf = %q, want %q", resolv, defaultResolvConf)
	}

	hostname, err := os.ReadFile(filepath.Join(root, "etc", "hostname"))
	if err != nil {
		t.Fatalf("hostname: %v", err)
	}
	if string(hostname) != "container\n" {
		t.Errorf("hostname = %q", hostname)
	}
}

func TestScaffoldIdempotentDoesNotOverwrite(t *testing.T) {
	root := t.TempDir()
	if err := Scaffold(root); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	custom := "nameserver 1.1.1.1\n"
	resolvPath := filepath.Join(root, "etc", "resolv.conf")
	if err := os.WriteFile(resolvPath, []byte(custom), 0o644); err != nil {
		t.Fatalf("overwrite resolv.conf: %v", err)
	}

	if err := Scaffold(root); err != nil {
		t.Fatalf("second Scaffold: %v", err)
	}

	got, err := os.ReadFile(resolvPath)
	if err != nil {
		t.Fatalf("read resolv.conf: %v", err)
	}
	if string(got) != custom {
		t.Errorf("Scaffold overwrote an existing resolv.conf: got %q", got)
	}
}
