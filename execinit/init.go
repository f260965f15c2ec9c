//go:build linux

package execinit

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
)

// Init runs bock's container init: it spawns the container's entrypoint,
// reaps every zombie that lands on it as PID 1, and forwards SIGTERM to
// the entrypoint for a graceful shutdown, per spec §4.8. Exit code
// follows the usual convention: the entrypoint's own exit code on normal
// exit, or 128+signal if it was killed by a signal.
type Init struct {
	Args []string
	Env  []string
	Dir  string
	// Stdin/Stdout/Stderr are connected to the container's pty slave or
	// pipe endpoints, already set up by the caller.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Run spawns the entrypoint and enters the reaping loop until it exits.
func (in *Init) Run(ctx context.Context) (int, error) {
	if len(in.Args) == 0 {
		return 0, bockerr.New("execinit", bockerr.Config, "no command specified", nil)
	}

	cmd := exec.CommandContext(ctx, in.Args[0], in.Args[1:]...)
	cmd.Env = in.Env
	cmd.Dir = in.Dir
	cmd.Stdin = in.Stdin
	cmd.Stdout = in.Stdout
	cmd.Stderr = in.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, bockerr.New("execinit", bockerr.Io, "spawn container entrypoint", err)
	}

	slog.InfoContext(ctx, "execinit: entrypoint spawned", "pid", cmd.Process.Pid, "args", in.Args)

	sigCh := make(chan os.Signal, 16)
	signal.Notify(sigCh, unix.SIGCHLD, unix.SIGTERM, unix.SIGINT)
	defer signal.Stop(sigCh)

	shutdown := false
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if code, done := reapAndCheck(cmd.Process.Pid); done {
			slog.InfoContext(ctx, "execinit: entrypoint exited", "exit_code", code)
			return code, nil
		}

		select {
		case sig := <-sigCh:
			switch sig {
			case unix.SIGTERM, unix.SIGINT:
				if !shutdown {
					shutdown = true
					slog.InfoContext(ctx, "execinit: forwarding shutdown signal", "signal", sig)
					_ = cmd.Process.Signal(unix.SIGTERM)
					go killAfterGrace(cmd.Process.Pid, 5*time.Second)
				}
			case unix.SIGCHLD:
				// handled by the top of the loop's reap pass
			}
		case <-ticker.C:
		}
	}
}

// reapAndCheck reaps every finished child and reports whether
// entrypointPid was among them, along with its converted exit code.
func reapAndCheck(entrypointPid int) (int, bool) {
	exitCode := -1
	found := false

	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if pid <= 0 || err != nil {
			break
		}

		code := exitCodeFor(status)
		if pid == entrypointPid {
			exitCode = code
			found = true
		}
	}

	return exitCode, found
}

func exitCodeFor(status unix.WaitStatus) int {
	switch {
	case status.Exited():
		return status.ExitStatus()
	case status.Signaled():
		return 128 + int(status.Signal())
	default:
		return 1
	}
}

func killAfterGrace(pid int, grace time.Duration) {
	time.Sleep(grace)
	_ = unix.Kill(pid, unix.SIGKILL)
}
