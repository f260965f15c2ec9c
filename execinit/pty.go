//go:build linux

// Package execinit implements bock's container init process: PTY
// allocation and console-socket FD passing, the PID-1 reaping loop, and
// OCI lifecycle hook execution, per spec §4.8.
package execinit

import (
	"os"

	"github.com/creack/pty"

	"github.com/fishmindlab360/bock/bockerr"
)

// PtyPair is an allocated master/slave pseudo-terminal. The slave becomes
// the container process's stdio; the master stays with bock's runtime
// process and is handed to attaching clients over the console socket.
type PtyPair struct {
	Master *os.File
	Slave  *os.File
}

// AllocatePTY opens a new pseudo-terminal pair.
func AllocatePTY() (*PtyPair, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, bockerr.New("execinit", bockerr.Io, "allocate pty", err)
	}
	return &PtyPair{Master: master, Slave: slave}, nil
}

// Close releases both ends of the pair.
func (p *PtyPair) Close() error {
	slaveErr := p.Slave.Close()
	masterErr := p.Master.Close()
	if slaveErr != nil {
		return slaveErr
	}
	return masterErr
}

// SlavePath returns the pathname of the slave device, as recorded by the
// OS (e.g. /dev/pts/3), for logging and debugging.
func (p *PtyPair) SlavePath() string {
	return p.Slave.Name()
}

// Resize sets the slave's window size, forwarded from an attaching
// client's terminal.
func (p *PtyPair) Resize(rows, cols uint16) error {
	if err := pty.Setsize(p.Master, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return bockerr.New("execinit", bockerr.Io, "resize pty", err)
	}
	return nil
}
