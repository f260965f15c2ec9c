package container

import (
	"os"
	"testing"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/ocispec"
	"github.com/fishmindlab360/bock/paths"
)

func testPaths(t *testing.T) paths.BockPaths {
	t.Helper()
	root := t.TempDir()
	return paths.New(root, root)
}

func TestWriteAndLoadStateRoundTrips(t *testing.T) {
	p := testPaths(t)
	if err := os.MkdirAll(p.Container("c1"), 0o750); err != nil {
		t.Fatalf("mkdir bundle: %v", err)
	}
	s := ocispec.NewState("c1", p.Container("c1"))
	s.SetRunning()

	if err := writeState(p, "c1", s); err != nil {
		t.Fatalf("writeState: %v", err)
	}

	got, err := loadState(p, "c1")
	if err != nil {
		t.Fatalf("loadState: %v", err)
	}
	if got.ID != "c1" || got.Status != ocispec.StatusRunning {
		t.Errorf("loaded state = %+v", got)
	}
}

func TestLoadStateMissingReturnsContainerNotFound(t *testing.T) {
	p := testPaths(t)
	_, err := loadState(p, "ghost")
	if bockerr.KindOf(err) != bockerr.ContainerNotFound {
		t.Fatalf("expected ContainerNotFound, got %v", err)
	}
}

func TestWriteAndReadPidRoundTrips(t *testing.T) {
	p := testPaths(t)
	if err := os.MkdirAll(p.Container("c1"), 0o750); err != nil {
		t.Fatalf("mkdir bundle: %v", err)
	}
	if err := writePid(p, "c1", 4242); err != nil {
		t.Fatalf("writePid: %v", err)
	}
	pid, err := readPid(p, "c1")
	if err != nil {
		t.Fatalf("readPid: %v", err)
	}
	if pid != 4242 {
		t.Errorf("pid = %d, want 4242", pid)
	}
}
