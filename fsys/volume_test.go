package fsys

import (
	"path/filepath"
	"testing"

	"github.com/fishmindlab360/bock/paths"
)

func testPaths(t *testing.T) paths.BockPaths {
	t.Helper()
	root := t.TempDir()
	p := paths.New(root, filepath.Join(root, "run"))
	if err := p.CreateDirs(); err != nil {
		t.Fatalf("CreateDirs: %v", err)
	}
	return p
}

func TestCreateLoadVolume(t *testing.T) {
	p := testPaths(t)

	v, err := CreateVolume(p, "data", map[string]string{"env": "test"})
	if err != nil {
		t.Fatalf("CreateVolume: %v", err)
	}
	if v.Driver != "local" {
		t.Errorf("Driver = %q, want local", v.Driver)
	}

	loaded, err := LoadVolume(p, "data")
	if err != nil {
		t.Fatalf("LoadVolume: %v", err)
	}
	if loaded == nil || loaded.Name != "data" {
		t.Fatalf("LoadVolume returned %+v", loaded)
	}
}

func TestCreateVolumeIdempotent(t *testing.T) {
	p := testPaths(t)

	v1, err := CreateVolume(p, "data", nil)
	if err != nil {
		t.Fatalf("CreateVolume: %v", err)
	}
	v2, err := CreateVolume(p, "data", nil)
	if err != nil {
		t.Fatalf("CreateVolume (second): %v", err)
	}
	if v1.Created != v2.Created {
		t.Error("second CreateVolume should return the existing volume, not recreate it")
	}
}

func TestRemoveVolume(t *testing.T) {
	p := testPaths(t)

	if _, err := CreateVolume(p, "data", nil); err != nil {
		t.Fatalf("CreateVolume: %v", err)
	}
	if err := RemoveVolume(p, "data"); err != nil {
		t.Fatalf("RemoveVolume: %v", err)
	}
	loaded, err := LoadVolume(p, "data")
	if err != nil {
		t.Fatalf("LoadVolume after remove: %v", err)
	}
	if loaded != nil {
		t.Error("expected nil after RemoveVolume")
	}
}

func TestListVolumes(t *testing.T) {
	p := testPaths(t)

	if _, err := CreateVolume(p, "one", nil); err != nil {
		t.Fatalf("CreateVolume: %v", err)
	}
	if _, err := CreateVolume(p, "two", nil); err != nil {
		t.Fatalf("CreateVolume: %v", err)
	}

	vols, err := ListVolumes(p)
	if err != nil {
		t.Fatalf("ListVolumes: %v", err)
	}
	if len(vols) != 2 {
		t.Errorf("got %d volumes, want 2", len(vols))
	}
}
