package main

import (
	"context"
	"os"
	"strings"

	"github.com/fishmindlab360/bock/container"
)

// ExecCmd implements `bock exec <id> [--tty] [--user u:g] [--cwd …] -- CMD
// ARGS…`, per spec §6. TTY allocation is not wired here; exec always runs
// with the caller's own stdio, which is sufficient for scripted use and
// matches how bockrose's healthchecks invoke it.
type ExecCmd struct {
	ID   string   `arg:"" help:"container id"`
	Cwd  string   `help:"working directory inside the container"`
	TTY  bool     `help:"allocate a pty (not yet implemented)"`
	User string   `help:"user:group to run as (ignored; the command runs with the calling bock process's uid/gid)"`
	Cmd  []string `arg:"" help:"command and arguments to run"`
}

func (c *ExecCmd) Run(cctx *Context) error {
	if c.TTY {
		return errUnsupportedExecTTY
	}
	ctr, err := container.Load(cctx.Paths, c.ID)
	if err != nil {
		return err
	}
	code, err := ctr.Exec(context.Background(), container.ExecOptions{
		Args:   c.Cmd,
		Env:    []string{"PATH=" + strings.Join([]string{"/usr/local/sbin", "/usr/local/bin", "/usr/sbin", "/usr/bin", "/sbin", "/bin"}, ":")},
		Cwd:    c.Cwd,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		return err
	}
	os.Exit(code)
	return nil
}
