//go:build linux

package network

import "testing"

func TestNewDriverHost(t *testing.T) {
	d, err := NewDriver(DriverHost, "bock0", nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != DriverHost {
		t.Fatalf("Kind() = %s, want host", d.Kind())
	}
	ep, err := d.Attach("container1", "")
	if err != nil {
		t.Fatal(err)
	}
	if ep.IP != nil {
		t.Fatal("host driver should not allocate an address")
	}
}

func TestNewDriverNone(t *testing.T) {
	d, err := NewDriver(DriverNone, "bock0", nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != DriverNone {
		t.Fatalf("Kind() = %s, want none", d.Kind())
	}
}

func TestNewDriverRejectsUnknownKind(t *testing.T) {
	if _, err := NewDriver("made-up", "bock0", nil); err == nil {
		t.Fatal("expected an error for an unrecognized driver kind")
	}
}
