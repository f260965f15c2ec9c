package cgroup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadMemoryPressure(t *testing.T) {
	dir := t.TempDir()
	content := "some avg10=0.12 avg60=0.34 avg300=0.56 total=1234\n" +
		"full avg10=0.01 avg60=0.02 avg300=0.03 total=56\n"
	if err := os.WriteFile(filepath.Join(dir, "memory.pressure"), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	stats, err := ReadMemoryPressure(dir)
	if err != nil {
		t.Fatalf("ReadMemoryPressure: %v", err)
	}
	if stats.Some.Avg10 != 0.12 || stats.Some.Total != 1234 {
		t.Errorf("some = %+v", stats.Some)
	}
	if stats.Full.Avg300 != 0.03 || stats.Full.Total != 56 {
		t.Errorf("full = %+v", stats.Full)
	}
}

func TestDetectVersion(t *testing.T) {
	// Whichever version the test host runs, DetectVersion must not panic
	// and must return one of the two known values.
	v := DetectVersion()
	if v != V1 && v != V2 {
		t.Errorf("unexpected version value: %v", v)
	}
}
