//go:build linux

package execinit

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// exec_SelfKill spawns a short-lived child, kills it with SIGKILL, and
// returns its pid once the kill has been delivered.
func exec_SelfKill(t *testing.T) int {
	t.Helper()
	cmd := exec.Command("/bin/sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	pid := cmd.Process.Pid
	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		t.Fatalf("kill child: %v", err)
	}
	return pid
}

func TestInitRunReturnsEntrypointExitCode(t *testing.T) {
	in := &Init{
		Args:   []string{"/bin/sh", "-c", "exit 7"},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	code, err := in.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
}

func TestInitRunRejectsEmptyArgs(t *testing.T) {
	in := &Init{}
	if _, err := in.Run(context.Background()); err == nil {
		t.Fatal("expected an error for an empty command")
	}
}

func TestExitCodeForSignaled(t *testing.T) {
	// Exercise the 128+signal convention without needing a real process:
	// unix.WaitStatus on Linux is a plain integer layout we can construct
	// by hand is risky across libc variants, so this just asserts the
	// convention for a status synthesized via a real signaled child.
	pid := exec_SelfKill(t)

	var code int
	var found bool
	for i := 0; i < 50 && !found; i++ {
		code, found = reapAndCheck(pid)
		if !found {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if !found {
		t.Fatal("expected the killed child to be reaped")
	}
	if code != 128+int(unix.SIGKILL) {
		t.Errorf("exit code = %d, want %d", code, 128+int(unix.SIGKILL))
	}
}
