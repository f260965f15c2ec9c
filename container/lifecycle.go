//go:build linux

package container

import (
	"context"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/cgroup"
	"github.com/fishmindlab360/bock/execinit"
	"github.com/fishmindlab360/bock/fsys"
)

// Hooks groups the lifecycle hook sets a Container carries, keyed by the
// phase in which §4.8 runs them.
type Hooks struct {
	CreateRuntime   []execinit.Hook
	CreateContainer []execinit.Hook
	StartContainer  []execinit.Hook
	Poststart       []execinit.Hook
	Poststop        []execinit.Hook
}

// Kill sends signal to the container's init process. kill(pid, 0) is used
// elsewhere as an existence probe; here the caller picks the real signal.
func (c *Container) Kill(signal unix.Signal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Status.CanKill() {
		return bockerr.New("container", bockerr.Config,
			"container "+c.id+" cannot be killed (status: "+string(c.state.Status)+")", nil)
	}

	if c.state.Pid == nil {
		return bockerr.New("container", bockerr.Internal, "container "+c.id+" has no recorded pid", nil)
	}

	if err := unix.Kill(*c.state.Pid, signal); err != nil {
		return bockerr.New("container", bockerr.Io, "signal container "+c.id, err)
	}
	return nil
}

// Probe reports whether the container's init process is still alive, via
// kill(pid, 0).
func (c *Container) Probe() bool {
	c.mu.Lock()
	pid := c.state.Pid
	c.mu.Unlock()
	if pid == nil {
		return false
	}
	return unix.Kill(*pid, 0) == nil
}

// Pause freezes the container's cgroup.
func (c *Container) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Status.CanPause() {
		return bockerr.New("container", bockerr.Config,
			"container "+c.id+" cannot be paused (status: "+string(c.state.Status)+")", nil)
	}

	mgr, err := c.cgroupManager()
	if err != nil {
		return err
	}
	if err := mgr.Freeze(); err != nil {
		return err
	}

	c.state.SetPaused()
	return c.persist()
}

// Resume thaws the container's cgroup.
func (c *Container) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Status.CanResume() {
		return bockerr.New("container", bockerr.Config,
			"container "+c.id+" cannot be resumed (status: "+string(c.state.Status)+")", nil)
	}

	mgr, err := c.cgroupManager()
	if err != nil {
		return err
	}
	if err := mgr.Unfreeze(); err != nil {
		return err
	}

	c.state.SetRunning()
	return c.persist()
}

func (c *Container) cgroupManager() (cgroup.Manager, error) {
	if c.cgroup != nil {
		return c.cgroup, nil
	}
	mgr, err := cgroup.NewManager(c.id)
	if err != nil {
		return nil, err
	}
	c.cgroup = mgr
	return mgr, nil
}

// Delete removes a container's resources, per spec §4.10. It refuses a
// running container unless force is set, in which case it kills the
// cgroup's processes first.
func (c *Container) Delete(ctx context.Context, force bool, hooks Hooks) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status.IsRunning() && !force {
		return bockerr.New("container", bockerr.Config,
			"container "+c.id+" is running; delete requires force", nil)
	}

	if c.state.Status.IsRunning() {
		if mgr, err := c.cgroupManager(); err == nil {
			_ = mgr.KillAll()
			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) {
				if c.state.Pid == nil || unix.Kill(*c.state.Pid, 0) != nil {
					break
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}

	if !c.state.Status.CanDelete() && !force {
		return bockerr.New("container", bockerr.Config,
			"container "+c.id+" cannot be deleted (status: "+string(c.state.Status)+")", nil)
	}

	_ = execinit.RunPoststopHooks(ctx, hooks.Poststop, c.state)

	if mgr, err := c.cgroupManager(); err == nil {
		_ = mgr.Delete()
	}

	merged := c.paths.ContainerRootfs(c.id)
	_ = fsys.UnmountOverlay(merged)
	_ = fsys.Unmount(merged)

	_ = os.RemoveAll(c.paths.ContainerUpper(c.id))
	_ = os.RemoveAll(c.paths.ContainerWork(c.id))
	_ = os.RemoveAll(merged)

	if err := os.RemoveAll(c.paths.Container(c.id)); err != nil {
		return bockerr.New("container", bockerr.Io, "remove bundle for "+c.id, err)
	}

	c.state.SetStopped()
	return nil
}
