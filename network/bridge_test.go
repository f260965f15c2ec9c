//go:build linux

package network

import (
	"os"
	"testing"
)

func TestEnsureBridgeRequiresPrivilege(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("this test only documents the non-root failure path")
	}
	if _, err := EnsureBridge("bock-test0", nil); err == nil {
		t.Fatal("expected bridge creation to fail without CAP_NET_ADMIN")
	}
}

func TestExistsReportsAbsentInterface(t *testing.T) {
	if Exists("bock-definitely-not-a-real-iface0") {
		t.Fatal("expected a made-up interface name to not exist")
	}
}
