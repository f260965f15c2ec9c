// Package volume provides the Driver dynamic-dispatch point SPEC_FULL.md
// calls for alongside network.Driver: fsys already implements local
// volumes' on-disk CRUD, so Driver is a thin interface in front of it,
// following the same Kind()+verb-methods shape as network.Driver.
package volume

import (
	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/fsys"
	"github.com/fishmindlab360/bock/paths"
)

// DriverKind names a volume driver. Only "local" is implemented; the
// type exists so a future plugin-backed driver has somewhere to register
// without reshaping callers.
type DriverKind string

const DriverLocal DriverKind = "local"

// Driver creates, removes, and resolves the mount source for named
// volumes. Every bock volume is local; the orchestrator depends on this
// interface rather than on fsys directly, so a driver swap doesn't ripple
// through it.
type Driver interface {
	Kind() DriverKind
	Create(name string, labels map[string]string) (*fsys.Volume, error)
	Get(name string) (*fsys.Volume, error)
	Remove(name string) error
	List() ([]*fsys.Volume, error)
	// Source returns the host path to bind-mount at target inside a
	// container's rootfs for this volume.
	Source(name string) string
}

// LocalDriver backs Driver with fsys's <root>/volumes directory tree.
type LocalDriver struct {
	paths paths.BockPaths
}

// NewLocalDriver builds the default Driver.
func NewLocalDriver(p paths.BockPaths) *LocalDriver {
	return &LocalDriver{paths: p}
}

func (d *LocalDriver) Kind() DriverKind { return DriverLocal }

func (d *LocalDriver) Create(name string, labels map[string]string) (*fsys.Volume, error) {
	return fsys.CreateVolume(d.paths, name, labels)
}

func (d *LocalDriver) Get(name string) (*fsys.Volume, error) {
	return fsys.LoadVolume(d.paths, name)
}

func (d *LocalDriver) Remove(name string) error {
	return fsys.RemoveVolume(d.paths, name)
}

func (d *LocalDriver) List() ([]*fsys.Volume, error) {
	return fsys.ListVolumes(d.paths)
}

func (d *LocalDriver) Source(name string) string {
	return d.paths.Volume(name)
}

// NewDriver resolves kind to a concrete Driver, mirroring
// network.NewDriver's dispatch shape.
func NewDriver(kind DriverKind, p paths.BockPaths) (Driver, error) {
	switch kind {
	case DriverLocal, "":
		return NewLocalDriver(p), nil
	default:
		return nil, bockerr.New("volume", bockerr.Unsupported, "volume driver "+string(kind), nil)
	}
}
