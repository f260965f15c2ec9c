package container

import (
	"os"
	"testing"

	"github.com/fishmindlab360/bock/ocispec"
	"github.com/fishmindlab360/bock/paths"
)

func TestListReturnsEmptyWhenNoContainersDir(t *testing.T) {
	p := paths.New(t.TempDir(), "")
	got, err := List(p)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d containers, want 0", len(got))
	}
}

func TestListReturnsPersistedStates(t *testing.T) {
	p := paths.New(t.TempDir(), "")
	for _, id := range []string{"a", "b"} {
		if err := os.MkdirAll(p.Container(id), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		s := ocispec.NewState(id, p.Container(id))
		if err := writeState(p, id, s); err != nil {
			t.Fatalf("writeState: %v", err)
		}
	}

	got, err := List(p)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d containers, want 2", len(got))
	}
}

func TestListSkipsBundleWithoutState(t *testing.T) {
	p := paths.New(t.TempDir(), "")
	if err := os.MkdirAll(p.Container("broken"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := List(p)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d containers, want 0 (broken bundle skipped)", len(got))
	}
}
