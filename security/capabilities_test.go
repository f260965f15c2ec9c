//go:build linux

package security

import "testing"

func TestMinimalCapabilities(t *testing.T) {
	caps := MinimalCapabilities()
	if len(caps) != 14 {
		t.Fatalf("expected 14 default capabilities, got %d", len(caps))
	}
	want := map[string]bool{"CAP_CHOWN": true, "CAP_SYS_CHROOT": true, "CAP_AUDIT_WRITE": true}
	got := map[string]bool{}
	for _, c := range caps {
		got[c] = true
	}
	for name := range want {
		if !got[name] {
			t.Errorf("missing expected capability %s", name)
		}
	}
}

func TestMinimalCapabilitiesIsACopy(t *testing.T) {
	caps := MinimalCapabilities()
	caps[0] = "CAP_SYS_ADMIN"
	if defaultCapabilities[0] == "CAP_SYS_ADMIN" {
		t.Fatal("mutating the returned slice mutated the shared default list")
	}
}

func TestNewCapabilitySetAppliesToAllSets(t *testing.T) {
	names := []string{"CAP_CHOWN", "CAP_KILL"}
	set := NewCapabilitySet(names)
	if len(set.Bounding) != 2 || len(set.Effective) != 2 || len(set.Inheritable) != 2 ||
		len(set.Permitted) != 2 || len(set.Ambient) != 2 {
		t.Fatalf("expected all five sets populated, got %+v", set)
	}
}

func TestEmptyCapabilitySet(t *testing.T) {
	set := EmptyCapabilitySet()
	if len(set.Bounding) != 0 || len(set.Effective) != 0 {
		t.Fatalf("expected empty set, got %+v", set)
	}
}

func TestToCapListRejectsUnknownName(t *testing.T) {
	if _, err := toCapList([]string{"CAP_NOT_A_REAL_CAPABILITY"}); err == nil {
		t.Fatal("expected error for unknown capability name")
	}
}

func TestToCapListAcceptsKnownNames(t *testing.T) {
	caps, err := toCapList([]string{"CAP_CHOWN", "CAP_SYS_ADMIN"})
	if err != nil {
		t.Fatalf("toCapList: %v", err)
	}
	if len(caps) != 2 {
		t.Fatalf("expected 2 capabilities, got %d", len(caps))
	}
}
