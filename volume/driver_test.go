package volume

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

func TestNewDriverLocal(t *testing.T) {
	d, err := NewDriver(DriverLocal, testPaths(t))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if d.Kind() != DriverLocal {
		t.Errorf("Kind() = %q, want %q", d.Kind(), DriverLocal)
	}
}

func TestNewDriverUnsupported(t *testing.T) {
	if _, err := NewDriver("nfs", testPaths(t)); err == nil {
		t.Fatal("expected error for unsupported driver kind")
	}
}

func TestLocalDriverCreateGetRemove(t *testing.T) {
	d, err := NewDriver(DriverLocal, testPaths(t))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	v, err := d.Create("data", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.Name != "data" {
		t.Errorf("Name = %q, want data", v.Name)
	}
	if d.Source("data") != v.Path {
		t.Errorf("Source() = %q, want %q", d.Source("data"), v.Path)
	}

	got, err := d.Get("data")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil after Create")
	}

	if err := d.Remove("data"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, err = d.Get("data")
	if err != nil {
		t.Fatalf("Get after Remove: %v", err)
	}
	if got != nil {
		t.Error("expected nil after Remove")
	}
}

func TestLocalDriverList(t *testing.T) {
	d, err := NewDriver(DriverLocal, testPaths(t))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if _, err := d.Create("one", nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := d.Create("two", nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	vols, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(vols) != 2 {
		t.Errorf("got %d volumes, want 2", len(vols))
	}
}
