//go:build linux

package network

import (
	"os"
	"testing"
)

func TestConfigureContainerInterfaceRequiresExistingLink(t *testing.T) {
	if _, err := os.Stat("/sys/class/net/bock-definitely-not-a-real-iface0"); err == nil {
		t.Skip("interface unexpectedly exists")
	}
	err := ConfigureContainerInterface("bock-definitely-not-a-real-iface0", "eth0", nil, nil)
	if err == nil {
		t.Fatal("expected an error for a nonexistent source interface")
	}
}

func TestRunInNetnsRejectsBadPath(t *testing.T) {
	err := RunInNetns("/no/such/netns/path", func() error { return nil })
	if err == nil {
		t.Fatal("expected an error opening a nonexistent netns path")
	}
}
