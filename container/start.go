//go:build linux

package container

import (
	"context"
	"os"
	"os/exec"
	"syscall"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/execinit"
	"github.com/fishmindlab360/bock/namespace"
)

// initProcessArg is the hidden cmd/bock subcommand that re-execs into
// RunInitProcess; cmd/bock's main() checks os.Args[1] for it before
// falling through to the normal CLI parser.
const initProcessArg = "__bock_init__"

// StartOptions carries per-start knobs that don't belong in the OCI spec.
type StartOptions struct {
	ConsoleSocketPath string
}

// Start performs spec §4.10's Start sequence. The bulk of the work —
// namespace entry, mounts, pivot_root, resources, security, exec — runs in
// a re-executed child (RunInitProcess); here the parent creates it with
// the right Cloneflags, supplies uid/gid maps for a user namespace, waits
// for the child to signal readiness, then records its pid and runs the
// poststart hooks, matching the spec's explicit split between child steps
// and the parent's final step.
func (c *Container) Start(ctx context.Context, hooks Hooks, opts StartOptions) error {
	c.mu.Lock()
	if !c.state.Status.CanStart() {
		status := c.state.Status
		c.mu.Unlock()
		return bockerr.New("container", bockerr.Config,
			"container "+c.id+" cannot be started (status: "+string(status)+")", nil)
	}
	spec := c.spec
	c.mu.Unlock()

	mapReadyR, mapReadyW, err := os.Pipe()
	if err != nil {
		return bockerr.New("container", bockerr.Io, "create sync pipe", err)
	}
	initReadyR, initReadyW, err := os.Pipe()
	if err != nil {
		return bockerr.New("container", bockerr.Io, "create sync pipe", err)
	}

	cmd := exec.Command(selfExe(), initProcessArg, c.Bundle())
	cmd.ExtraFiles = []*os.File{mapReadyR, initReadyW}
	cmd.Env = append(os.Environ(),
		"BOCK_CONTAINER_ID="+c.id,
		"BOCK_CONSOLE_SOCKET="+opts.ConsoleSocketPath,
	)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: namespace.CloneFlags(spec.Linux.Namespaces),
	}

	if err := cmd.Start(); err != nil {
		mapReadyR.Close()
		mapReadyW.Close()
		initReadyR.Close()
		initReadyW.Close()
		return bockerr.New("container", bockerr.Io, "spawn container init for "+c.id, err)
	}
	mapReadyR.Close()
	initReadyW.Close()

	if hasUserNamespace(spec.Linux.Namespaces) {
		if err := writeIDMaps(cmd.Process.Pid, spec); err != nil {
			mapReadyW.Close()
			_ = cmd.Process.Kill()
			_, _ = cmd.Process.Wait()
			return err
		}
	}
	_, _ = mapReadyW.Write([]byte{1})
	mapReadyW.Close()

	ready := make([]byte, 1)
	_, readErr := initReadyR.Read(ready)
	initReadyR.Close()
	if readErr != nil {
		waitStatus, _ := cmd.Process.Wait()
		detail := ""
		if waitStatus != nil {
			detail = waitStatus.String()
		}
		return bockerr.New("container", bockerr.Internal,
			"container init for "+c.id+" exited before becoming ready: "+detail, readErr)
	}

	pid := cmd.Process.Pid

	c.mu.Lock()
	c.state.Pid = &pid
	c.state.SetRunning()
	persistErr := c.persist()
	state := *c.state
	c.mu.Unlock()
	if persistErr != nil {
		return persistErr
	}

	if err := writePid(c.paths, c.id, pid); err != nil {
		return err
	}

	if err := execinit.RunPoststartHooks(ctx, hooks.Poststart, &state); err != nil {
		return err
	}

	go func() {
		ws, _ := cmd.Process.Wait()
		code := 1
		if ws != nil && ws.Exited() {
			code = ws.ExitCode()
		}
		c.exitCh <- code
	}()

	return nil
}

// Wait blocks until the container's entrypoint exits, returning its exit
// code.
func (c *Container) Wait(ctx context.Context) (int, error) {
	select {
	case code := <-c.exitCh:
		return code, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func selfExe() string {
	if _, err := os.Stat("/proc/self/exe"); err == nil {
		return "/proc/self/exe"
	}
	exe, err := os.Executable()
	if err != nil {
		return os.Args[0]
	}
	return exe
}

func hasUserNamespace(namespaces []rspec.LinuxNamespace) bool {
	for _, ns := range namespaces {
		if ns.Type == rspec.UserNamespace {
			return true
		}
	}
	return false
}

func writeIDMaps(pid int, spec *rspec.Spec) error {
	uidMaps := make([]namespace.IDMap, len(spec.Linux.UIDMappings))
	for i, m := range spec.Linux.UIDMappings {
		uidMaps[i] = namespace.IDMap{ContainerID: m.ContainerID, HostID: m.HostID, Size: m.Size}
	}
	gidMaps := make([]namespace.IDMap, len(spec.Linux.GIDMappings))
	for i, m := range spec.Linux.GIDMappings {
		gidMaps[i] = namespace.IDMap{ContainerID: m.ContainerID, HostID: m.HostID, Size: m.Size}
	}
	if len(uidMaps) == 0 {
		uidMaps = []namespace.IDMap{namespace.IdentityMap(uint32(os.Getuid()))}
	}
	if len(gidMaps) == 0 {
		gidMaps = []namespace.IDMap{namespace.IdentityMap(uint32(os.Getgid()))}
	}
	if err := namespace.WriteUIDMap(pid, uidMaps); err != nil {
		return err
	}
	return namespace.WriteGIDMap(pid, gidMaps)
}
