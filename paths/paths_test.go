package paths

import (
	"path/filepath"
	"testing"
)

func TestDerivedPaths(t *testing.T) {
	p := New("/var/lib/bock", "/run/bock")

	cases := map[string]string{
		"containers": p.Containers(),
		"container":  p.Container("abc123"),
		"state":      p.ContainerState("abc123"),
		"blob":       p.Blob("sha256", "deadbeef"),
		"layer":      p.Layer("sha256:deadbeef"),
	}
	want := map[string]string{
		"containers": "/var/lib/bock/containers",
		"container":  "/var/lib/bock/containers/abc123",
		"state":      "/var/lib/bock/containers/abc123/state.json",
		"blob":       "/var/lib/bock/blobs/sha256/deadbeef",
		"layer":      "/var/lib/bock/layers/sha256/deadbeef",
	}
	for name, got := range cases {
		if got != want[name] {
			t.Errorf("%s: got %q, want %q", name, got, want[name])
		}
	}
}

func TestCreateDirsIdempotent(t *testing.T) {
	root := t.TempDir()
	p := New(root, filepath.Join(root, "run"))

	if err := p.CreateDirs(); err != nil {
		t.Fatalf("CreateDirs: %v", err)
	}
	if err := p.CreateDirs(); err != nil {
		t.Fatalf("CreateDirs (second call): %v", err)
	}
}
