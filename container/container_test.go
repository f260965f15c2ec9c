package container

import (
	"os"
	"testing"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/ocispec"
	"github.com/fishmindlab360/bock/paths"
)

func TestContainerAccessors(t *testing.T) {
	root := t.TempDir()
	p := paths.New(root, root)
	if err := os.MkdirAll(p.Container("c1"), 0o750); err != nil {
		t.Fatalf("mkdir bundle: %v", err)
	}
	spec := &rspec.Spec{Version: "1.2.0"}
	state := ocispec.NewState("c1", p.Container("c1"))

	c := &Container{id: "c1", paths: p, spec: spec, state: state, exitCh: make(chan int, 1)}

	if c.ID() != "c1" {
		t.Errorf("ID() = %q", c.ID())
	}
	if c.Spec() != spec {
		t.Error("Spec() did not return the stored spec")
	}
	if c.Bundle() != p.Container("c1") {
		t.Errorf("Bundle() = %q", c.Bundle())
	}
	if c.Status() != ocispec.StatusCreating {
		t.Errorf("Status() = %q", c.Status())
	}

	got := c.State()
	if got.ID != "c1" {
		t.Errorf("State().ID = %q", got.ID)
	}
}

func TestContainerPersistWritesStateFile(t *testing.T) {
	root := t.TempDir()
	p := paths.New(root, root)
	if err := os.MkdirAll(p.Container("c1"), 0o750); err != nil {
		t.Fatalf("mkdir bundle: %v", err)
	}
	state := ocispec.NewState("c1", p.Container("c1"))
	c := &Container{id: "c1", paths: p, state: state, exitCh: make(chan int, 1)}

	if err := c.persist(); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if _, err := os.Stat(p.ContainerState("c1")); err != nil {
		t.Fatalf("expected state.json to exist: %v", err)
	}
}
