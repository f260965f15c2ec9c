// Package container implements bock's container lifecycle state machine
// — create, start, kill, pause, resume, delete — per spec §4.10. It is
// the single place that enforces the can_start/can_kill/can_pause/
// can_resume/can_delete predicates and persists state.json on every
// transition.
package container

import (
	"sync"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/cgroup"
	"github.com/fishmindlab360/bock/ocispec"
	"github.com/fishmindlab360/bock/paths"
)

// Container is one bundle under <root>/containers/<id>: its OCI spec, its
// persisted state, and (once started) the manager handles bock needs to
// operate on it.
type Container struct {
	mu    sync.Mutex
	id    string
	paths paths.BockPaths
	spec  *rspec.Spec
	state *ocispec.State

	cgroup cgroup.Manager

	// exitCh receives the entrypoint's exit code once, after Start's
	// reaping goroutine observes the init process exit. Wait blocks on it.
	exitCh chan int
}

// ID returns the container's ID.
func (c *Container) ID() string { return c.id }

// Spec returns the container's OCI runtime spec.
func (c *Container) Spec() *rspec.Spec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec
}

// State returns a copy of the container's current persisted state.
func (c *Container) State() ocispec.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.state
}

// Status returns the container's current lifecycle status.
func (c *Container) Status() ocispec.ContainerStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status
}

// Bundle returns the container's on-disk bundle directory.
func (c *Container) Bundle() string {
	return c.paths.Container(c.id)
}

func (c *Container) persist() error {
	return writeState(c.paths, c.id, c.state)
}
