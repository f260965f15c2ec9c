//go:build linux

package container

import (
	"context"
	"encoding/json"
	"os"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/execinit"
	"github.com/fishmindlab360/bock/fsys"
	"github.com/fishmindlab360/bock/idkit"
	"github.com/fishmindlab360/bock/ocispec"
	"github.com/fishmindlab360/bock/paths"
)

// RootfsSource describes where a container's root filesystem comes from:
// either a set of image layers to overlay, or an already-prepared
// directory to bind-mount directly.
type RootfsSource struct {
	// Lower is the ordered (topmost-first) set of read-only image layer
	// directories to overlay. Empty means Bind is used instead.
	Lower []string
	// Bind is a single directory bind-mounted as the rootfs, used when
	// there is no layered image (e.g. a bare directory export).
	Bind string
}

// Create performs spec §4.10's Create steps: validate the ID, mount the
// rootfs, write config.json, persist the initial "creating" state, run
// the createRuntime/createContainer hooks, then transition to "created".
func Create(ctx context.Context, p paths.BockPaths, id string, spec *rspec.Spec, rootfs RootfsSource, hooks Hooks) (*Container, error) {
	if err := idkit.ValidateContainerId(id); err != nil {
		return nil, err
	}

	bundle := p.Container(id)
	if err := os.MkdirAll(bundle, 0o750); err != nil {
		return nil, bockerr.New("container", bockerr.Io, "create bundle dir for "+id, err)
	}

	rootfsPath := p.ContainerRootfs(id)
	if err := os.MkdirAll(rootfsPath, 0o755); err != nil {
		return nil, bockerr.New("container", bockerr.Io, "create rootfs dir for "+id, err)
	}

	if err := mountRootfs(p, id, rootfsPath, rootfs); err != nil {
		return nil, err
	}

	if err := fsys.Scaffold(rootfsPath); err != nil {
		return nil, err
	}

	spec.Root = &rspec.Root{Path: rootfsPath, Readonly: spec.Root != nil && spec.Root.Readonly}

	if err := writeConfig(p, id, spec); err != nil {
		return nil, err
	}

	state := ocispec.NewState(id, bundle)
	if err := writeState(p, id, state); err != nil {
		return nil, err
	}

	if err := execinit.RunHooks(ctx, hooks.CreateRuntime, state); err != nil {
		return nil, err
	}
	if err := execinit.RunHooks(ctx, hooks.CreateContainer, state); err != nil {
		return nil, err
	}

	state.Status = ocispec.StatusCreated
	if err := writeState(p, id, state); err != nil {
		return nil, err
	}

	c := &Container{id: id, paths: p, spec: spec, state: state, exitCh: make(chan int, 1)}
	return c, nil
}

func mountRootfs(p paths.BockPaths, id, rootfsPath string, src RootfsSource) error {
	if len(src.Lower) > 0 {
		return fsys.MountOverlay(fsys.OverlaySpec{
			Lower:  src.Lower,
			Upper:  p.ContainerUpper(id),
			Work:   p.ContainerWork(id),
			Merged: rootfsPath,
		})
	}
	if src.Bind != "" {
		return fsys.BindMount(src.Bind, rootfsPath, false)
	}
	return bockerr.New("container", bockerr.Config, "no rootfs source given for "+id, nil)
}

func writeConfig(p paths.BockPaths, id string, spec *rspec.Spec) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return bockerr.New("container", bockerr.Serialization, "marshal config.json for "+id, err)
	}
	if err := os.WriteFile(p.ContainerConfig(id), data, 0o640); err != nil {
		return bockerr.New("container", bockerr.Io, "write config.json for "+id, err)
	}
	return nil
}

// Load reads a container's persisted state.json and config.json back from
// disk, for inspection after a restart of the controlling process.
func Load(p paths.BockPaths, id string) (*Container, error) {
	state, err := loadState(p, id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.ContainerConfig(id))
	if err != nil {
		return nil, bockerr.New("container", bockerr.Io, "read config.json for "+id, err)
	}
	var spec rspec.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, bockerr.New("container", bockerr.Serialization, "parse config.json for "+id, err)
	}
	return &Container{id: id, paths: p, spec: &spec, state: state, exitCh: make(chan int, 1)}, nil
}
