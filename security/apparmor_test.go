//go:build linux

package security

import "testing"

func TestApplyAppArmorProfileSkipsUnconfined(t *testing.T) {
	if err := ApplyAppArmorProfile("unconfined"); err != nil {
		t.Fatalf("unconfined profile should be a no-op, got %v", err)
	}
}

func TestApplyAppArmorProfileSkipsEmpty(t *testing.T) {
	if err := ApplyAppArmorProfile(""); err != nil {
		t.Fatalf("empty profile should be a no-op, got %v", err)
	}
}

func TestDefaultAppArmorProfileName(t *testing.T) {
	if DefaultAppArmorProfile != "bock-default" {
		t.Errorf("unexpected default profile name %q", DefaultAppArmorProfile)
	}
}
