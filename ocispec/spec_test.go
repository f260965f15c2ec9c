package ocispec

import "testing"

func TestDefaultSpec(t *testing.T) {
	s := DefaultSpec("/var/lib/bock/containers/abc/rootfs", []string{"/bin/sh"})

	if s.Version != OCIVersion {
		t.Errorf("Version = %q, want %q", s.Version, OCIVersion)
	}
	if s.Root.Path != "/var/lib/bock/containers/abc/rootfs" {
		t.Errorf("Root.Path = %q", s.Root.Path)
	}
	if s.Root.Readonly {
		t.Error("Root.Readonly should default to false")
	}
	if !s.Process.NoNewPrivileges {
		t.Error("NoNewPrivileges should default to true")
	}
	if len(s.Linux.Namespaces) != 5 {
		t.Errorf("got %d default namespaces, want 5", len(s.Linux.Namespaces))
	}
	if len(s.Mounts) == 0 {
		t.Error("expected default mounts")
	}
}

func TestWithUIDGIDMappings(t *testing.T) {
	s := DefaultSpec("/rootfs", []string{"/bin/sh"})
	before := len(s.Linux.Namespaces)

	WithUIDGIDMappings(s, nil, nil)

	if len(s.Linux.Namespaces) != before+1 {
		t.Errorf("expected a user namespace to be appended")
	}
}
