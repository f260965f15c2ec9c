//go:build linux

package security

import "testing"

func TestMinimalConfig(t *testing.T) {
	cfg := Minimal()
	if !cfg.NoNewPrivileges {
		t.Error("expected no_new_privileges to default true")
	}
	if cfg.Seccomp != nil {
		t.Error("minimal config should carry no seccomp filter")
	}
	if len(cfg.Capabilities.Effective) != 14 {
		t.Errorf("expected 14 default capabilities, got %d", len(cfg.Capabilities.Effective))
	}
}

func TestHardenedConfig(t *testing.T) {
	cfg, err := Hardened()
	if err != nil {
		t.Fatalf("Hardened: %v", err)
	}
	if cfg.AppArmorProfile != DefaultAppArmorProfile {
		t.Errorf("expected default AppArmor profile, got %q", cfg.AppArmorProfile)
	}
	if cfg.Seccomp == nil {
		t.Error("hardened config should carry a seccomp filter")
	}
}
