//go:build linux

package execinit

import (
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
)

// ConsoleSocket listens on a Unix domain socket and hands out PTY master
// file descriptors to attaching clients via SCM_RIGHTS, per spec §4.8.
type ConsoleSocket struct {
	path     string
	listener *net.UnixListener
}

// NewConsoleSocket binds a console socket at path, removing any stale
// socket file left behind by a previous run.
func NewConsoleSocket(path string) (*ConsoleSocket, error) {
	_ = os.Remove(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, bockerr.New("execinit", bockerr.Io, "create console socket directory", err)
	}

	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, bockerr.New("execinit", bockerr.Io, "bind console socket", err)
	}
	return &ConsoleSocket{path: path, listener: l}, nil
}

// Path returns the socket's filesystem path.
func (c *ConsoleSocket) Path() string { return c.path }

// Accept waits for one attaching client.
func (c *ConsoleSocket) Accept() (*net.UnixConn, error) {
	conn, err := c.listener.AcceptUnix()
	if err != nil {
		return nil, bockerr.New("execinit", bockerr.Io, "accept console connection", err)
	}
	return conn, nil
}

// Close closes the listener and removes the socket file.
func (c *ConsoleSocket) Close() error {
	err := c.listener.Close()
	_ = os.Remove(c.path)
	return err
}

// SendPTYMaster sends fd to conn via SCM_RIGHTS.
func SendPTYMaster(conn *net.UnixConn, master *os.File) error {
	rights := unix.UnixRights(int(master.Fd()))
	if _, _, err := conn.WriteMsgUnix([]byte{0}, rights, nil); err != nil {
		return bockerr.New("execinit", bockerr.Io, "send pty master fd", err)
	}
	return nil
}

// RecvPTYMaster receives a single file descriptor sent via SCM_RIGHTS,
// wrapping it as an *os.File named name.
func RecvPTYMaster(conn *net.UnixConn, name string) (*os.File, error) {
	buf := make([]byte, 1)
	oob := make([]byte, unix.CmsgSpace(4))

	_, oobn, _, _, err := conn.ReadMsgUnix(buf, oob)
	if err != nil {
		return nil, bockerr.New("execinit", bockerr.Io, "receive pty master fd", err)
	}

	messages, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return nil, bockerr.New("execinit", bockerr.Serialization, "parse control message", err)
	}
	if len(messages) == 0 {
		return nil, bockerr.New("execinit", bockerr.Internal, "no control message received", nil)
	}

	fds, err := unix.ParseUnixRights(&messages[0])
	if err != nil {
		return nil, bockerr.New("execinit", bockerr.Serialization, "parse unix rights", err)
	}
	if len(fds) == 0 {
		return nil, bockerr.New("execinit", bockerr.Internal, "no pty master fd received", nil)
	}

	return os.NewFile(uintptr(fds[0]), name), nil
}
