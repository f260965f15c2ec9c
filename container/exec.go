//go:build linux

package container

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/execinit"
)

// execProcessArg is the hidden cmd/bock subcommand RunExecProcess answers
// to, mirroring Start's initProcessArg split between parent and re-exec'd
// child.
const execProcessArg = "__bock_exec__"

// execNamespaces fixes both the fd order Exec hands to the re-exec'd child
// via cmd.ExtraFiles and the setns order RunExecProcess consumes them in.
// net/uts/ipc/mnt take effect on the calling process immediately; pid only
// affects processes forked after the setns call, so it goes last, right
// before RunExecProcess forks the target command via execinit.Init.
var execNamespaces = []struct {
	name string
	typ  int
}{
	{"net", unix.CLONE_NEWNET},
	{"uts", unix.CLONE_NEWUTS},
	{"ipc", unix.CLONE_NEWIPC},
	{"mnt", unix.CLONE_NEWNS},
	{"pid", unix.CLONE_NEWPID},
}

// ExecOptions carries the command and environment for Exec, per spec
// §4.8's exec surface.
type ExecOptions struct {
	Args   []string
	Env    []string
	Cwd    string
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Exec runs a new process inside a running container's namespaces, by
// re-execing into RunExecProcess with the target's /proc/<pid>/ns/* files
// passed as open fds: setns(2) requires entering namespaces from a
// process that hasn't yet forked the command that will live in them.
func (c *Container) Exec(ctx context.Context, opts ExecOptions) (int, error) {
	c.mu.Lock()
	pid := c.state.Pid
	running := c.state.Status.IsRunning()
	c.mu.Unlock()

	if !running || pid == nil {
		return 0, bockerr.New("container", bockerr.Config, "exec requires a running container "+c.id, nil)
	}
	if len(opts.Args) == 0 {
		return 0, bockerr.New("container", bockerr.Config, "exec requires a command", nil)
	}

	nsFiles := make([]*os.File, 0, len(execNamespaces))
	for _, ns := range execNamespaces {
		f, err := os.Open(fmt.Sprintf("/proc/%d/ns/%s", *pid, ns.name))
		if err != nil {
			for _, opened := range nsFiles {
				opened.Close()
			}
			return 0, bockerr.New("container", bockerr.Io, "open namespace "+ns.name+" of "+c.id, err)
		}
		nsFiles = append(nsFiles, f)
	}
	defer func() {
		for _, f := range nsFiles {
			f.Close()
		}
	}()

	cwd := opts.Cwd
	if cwd == "" {
		cwd = "/"
	}
	args := append([]string{execProcessArg, cwd}, opts.Args...)
	cmd := exec.Command(selfExe(), args...)
	cmd.ExtraFiles = nsFiles
	cmd.Env = opts.Env
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, bockerr.New("container", bockerr.Io, "exec into "+c.id, err)
	}
	return 0, nil
}

// RunExecProcess is cmd/bock's dispatch target for execProcessArg: it
// enters the namespaces Exec opened (in the fixed execNamespaces order,
// read from fd 3 onward), then runs the requested command as PID 1's
// sibling inside the container.
func RunExecProcess(ctx context.Context, cwd string, args []string) error {
	if len(args) == 0 {
		return bockerr.New("container", bockerr.Config, "exec requires a command", nil)
	}

	for i, ns := range execNamespaces {
		f := os.NewFile(uintptr(3+i), ns.name)
		if err := unix.Setns(int(f.Fd()), ns.typ); err != nil {
			return bockerr.New("container", bockerr.PermissionDenied, "setns "+ns.name, err)
		}
		f.Close()
	}

	in := &execinit.Init{
		Args:   args,
		Env:    os.Environ(),
		Dir:    cwd,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	code, err := in.Run(ctx)
	if err != nil {
		return err
	}
	os.Exit(code)
	return nil
}
