//go:build linux

package network

import (
	"os"
	"testing"
)

func TestCreateVethPairRequiresPrivilege(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("this test only documents the non-root failure path")
	}
	if _, err := CreateVethPair("bockvth0", "bockvth0p"); err == nil {
		t.Fatal("expected veth creation to fail without CAP_NET_ADMIN")
	}
}

func TestDeleteOfAbsentVethIsNoop(t *testing.T) {
	v := &VethPair{Host: "bock-nonexistent0"}
	if err := v.Delete(); err != nil {
		t.Fatalf("deleting an absent veth should be a no-op, got %v", err)
	}
}
