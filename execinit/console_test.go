//go:build linux

package execinit

import (
	"net"
	"path/filepath"
	"testing"
)

func dialConsole(path string) (*net.UnixConn, error) {
	return net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
}

func TestConsoleSocketSendRecvPTYMaster(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "console.sock")

	server, err := NewConsoleSocket(sockPath)
	if err != nil {
		t.Fatalf("NewConsoleSocket: %v", err)
	}
	defer server.Close()

	pair, err := AllocatePTY()
	if err != nil {
		t.Skipf("pty allocation unavailable in this environment: %v", err)
	}
	defer pair.Close()

	client, err := dialConsole(sockPath)
	if err != nil {
		t.Fatalf("dial console socket: %v", err)
	}
	defer client.Close()

	serverConn, err := server.Accept()
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	defer serverConn.Close()

	if err := SendPTYMaster(serverConn, pair.Master); err != nil {
		t.Fatalf("SendPTYMaster: %v", err)
	}

	received, err := RecvPTYMaster(client, "received-master")
	if err != nil {
		t.Fatalf("RecvPTYMaster: %v", err)
	}
	defer received.Close()

	if received.Fd() == ^uintptr(0) {
		t.Error("expected a valid file descriptor")
	}
}

func TestConsoleSocketRemovesStaleFile(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "console.sock")

	first, err := NewConsoleSocket(sockPath)
	if err != nil {
		t.Fatalf("NewConsoleSocket: %v", err)
	}
	first.Close()

	second, err := NewConsoleSocket(sockPath)
	if err != nil {
		t.Fatalf("NewConsoleSocket (second bind): %v", err)
	}
	defer second.Close()
}
