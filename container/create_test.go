//go:build linux

package container

import (
	"context"
	"testing"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/paths"
)

func TestCreateRejectsInvalidId(t *testing.T) {
	root := t.TempDir()
	p := paths.New(root, root)
	spec := &rspec.Spec{Version: "1.2.0", Process: &rspec.Process{Args: []string{"/bin/true"}}}

	_, err := Create(context.Background(), p, "../escape", spec, RootfsSource{Bind: root}, Hooks{})
	if err == nil {
		t.Fatal("expected error for invalid container id")
	}
}

func TestCreateRequiresRootfsSource(t *testing.T) {
	root := t.TempDir()
	p := paths.New(root, root)
	spec := &rspec.Spec{Version: "1.2.0", Process: &rspec.Process{Args: []string{"/bin/true"}}}

	_, err := Create(context.Background(), p, "c1", spec, RootfsSource{}, Hooks{})
	if err == nil {
		t.Fatal("expected error with no rootfs source")
	}
}

func TestLoadMissingContainerFails(t *testing.T) {
	root := t.TempDir()
	p := paths.New(root, root)
	if _, err := Load(p, "ghost"); err == nil {
		t.Fatal("expected error loading a nonexistent container")
	}
}
