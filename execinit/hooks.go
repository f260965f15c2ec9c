//go:build linux

package execinit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/ocispec"
)

// Hook is one OCI lifecycle hook entry (prestart/createRuntime/
// createContainer/startContainer/poststart/poststop), per spec §4.8.
type Hook struct {
	Path    string
	Args    []string
	Env     []string
	Timeout *time.Duration
}

// RunHook executes a single hook, writing state as JSON to its stdin per
// the OCI runtime spec, and enforces Timeout with a timer, killing the hook
// if it overruns.
func RunHook(ctx context.Context, hook Hook, state *ocispec.State) error {
	if _, err := os.Stat(hook.Path); err != nil {
		return bockerr.New("execinit", bockerr.Config, "hook path does not exist: "+hook.Path, err)
	}

	cmd := exec.CommandContext(ctx, hook.Path, hook.Args...)
	cmd.Env = hook.Env

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return bockerr.New("execinit", bockerr.Serialization, "marshal container state for hook", err)
	}
	cmd.Stdin = bytes.NewReader(stateJSON)
	cmd.Stdout = nil
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return bockerr.New("execinit", bockerr.Io, "spawn hook "+hook.Path, err)
	}

	if hook.Timeout == nil {
		if err := cmd.Wait(); err != nil {
			return bockerr.New("execinit", bockerr.Internal, "hook "+hook.Path+" failed", err)
		}
		return nil
	}

	return waitWithTimeout(cmd, *hook.Timeout)
}

func waitWithTimeout(cmd *exec.Cmd, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case err := <-done:
		if err != nil {
			return bockerr.New("execinit", bockerr.Internal, "hook "+cmd.Path+" failed", err)
		}
		return nil
	case <-deadline.C:
		_ = cmd.Process.Kill()
		<-done
		return bockerr.New("execinit", bockerr.Internal, "hook "+cmd.Path+" timed out", nil)
	}
}

// RunHooks runs hooks in order, stopping at the first failure.
func RunHooks(ctx context.Context, hooks []Hook, state *ocispec.State) error {
	for _, hook := range hooks {
		if err := RunHook(ctx, hook, state); err != nil {
			return err
		}
	}
	return nil
}

// RunPrestartHooks runs the prestart set, per spec §4.8's lifecycle order.
func RunPrestartHooks(ctx context.Context, hooks []Hook, state *ocispec.State) error {
	slog.DebugContext(ctx, "execinit: running prestart hooks", "count", len(hooks))
	return RunHooks(ctx, hooks, state)
}

// RunPoststartHooks runs the poststart set.
func RunPoststartHooks(ctx context.Context, hooks []Hook, state *ocispec.State) error {
	slog.DebugContext(ctx, "execinit: running poststart hooks", "count", len(hooks))
	return RunHooks(ctx, hooks, state)
}

// RunPoststopHooks runs the poststop set.
func RunPoststopHooks(ctx context.Context, hooks []Hook, state *ocispec.State) error {
	slog.DebugContext(ctx, "execinit: running poststop hooks", "count", len(hooks))
	return RunHooks(ctx, hooks, state)
}
