package cgroup

import (
	"os"

	"github.com/fishmindlab360/bock/bockerr"
)

const cgroupRoot = "/sys/fs/cgroup"

// Manager operates one container's cgroup. Implementations: v2Manager (v2,
// backed by containerd/cgroups' cgroup2 package) and the v1 fallback.
type Manager interface {
	Path() string
	AddProcess(pid int) error
	ApplyResources(r Resources) error
	Freeze() error
	Unfreeze() error
	KillAll() error
	Stats() (Stats, error)
	Delete() error
}

// Version identifies which cgroup hierarchy the host mounts.
type Version int

const (
	V2 Version = iota
	V1
)

// DetectVersion distinguishes v2 (unified hierarchy, marked by
// cgroup.controllers at the root) from v1 (per-controller directories like
// cpu/), per spec §4.6.
func DetectVersion() Version {
	if _, err := os.Stat(cgroupRoot + "/cgroup.controllers"); err == nil {
		return V2
	}
	return V1
}

// NewManager creates (or, if it already exists, opens) the cgroup for
// containerID, choosing the v1 or v2 backend based on what the host mounts.
func NewManager(containerID string) (Manager, error) {
	switch DetectVersion() {
	case V2:
		return newV2Manager(containerID)
	default:
		return newV1Manager(containerID)
	}
}

func wrapPermissionErr(op string, err error) error {
	if os.IsPermission(err) {
		return bockerr.New("cgroup", bockerr.PermissionDenied, op, err)
	}
	return bockerr.New("cgroup", bockerr.Io, op, err)
}
