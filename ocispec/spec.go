// Package ocispec builds and inspects OCI runtime/image types, keeping the
// on-disk JSON bit-exact with upstream by building directly on
// opencontainers/runtime-spec and opencontainers/image-spec rather than a
// parallel struct set, per spec §4.2.
package ocispec

import (
	rspec "github.com/opencontainers/runtime-spec/specs-go"
)

// OCIVersion is the runtime-spec version bock's config.json/state.json claim.
const OCIVersion = "1.2.0"

// DefaultSpec returns a minimal, valid runtime-spec config.json for a Linux
// container: read-write rootfs at rootfsPath, a non-terminal process running
// args as root, the standard namespace set, and no_new_privileges set.
func DefaultSpec(rootfsPath string, args []string) *rspec.Spec {
	return &rspec.Spec{
		Version: OCIVersion,
		Root: &rspec.Root{
			Path:     rootfsPath,
			Readonly: false,
		},
		Process: &rspec.Process{
			Terminal: false,
			User:     rspec.User{UID: 0, GID: 0},
			Args:     args,
			Env:      []string{"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"},
			Cwd:      "/",
			Capabilities: &rspec.LinuxCapabilities{
				Bounding:    defaultCapabilities,
				Effective:   defaultCapabilities,
				Inheritable: defaultCapabilities,
				Permitted:   defaultCapabilities,
			},
			NoNewPrivileges: true,
		},
		Mounts: DefaultMounts(),
		Linux: &rspec.Linux{
			Namespaces: DefaultNamespaces(),
			Resources:  &rspec.LinuxResources{},
		},
		Annotations: map[string]string{},
	}
}

// defaultCapabilities mirrors the OCI default bounding set documented for
// unprivileged containers (runc's default profile).
var defaultCapabilities = []string{
	"CAP_CHOWN",
	"CAP_DAC_OVERRIDE",
	"CAP_FSETID",
	"CAP_FOWNER",
	"CAP_MKNOD",
	"CAP_NET_RAW",
	"CAP_SETGID",
	"CAP_SETUID",
	"CAP_SETFCAP",
	"CAP_SETPCAP",
	"CAP_NET_BIND_SERVICE",
	"CAP_SYS_CHROOT",
	"CAP_KILL",
	"CAP_AUDIT_WRITE",
}

// DefaultNamespaces returns the standard container namespace set: pid,
// network, mount, ipc, uts. User and cgroup namespaces are opt-in (rootless
// mode and cgroupns-private mode respectively) and are added by callers that
// need them.
func DefaultNamespaces() []rspec.LinuxNamespace {
	kinds := []rspec.LinuxNamespaceType{
		rspec.PIDNamespace,
		rspec.NetworkNamespace,
		rspec.MountNamespace,
		rspec.IPCNamespace,
		rspec.UTSNamespace,
	}
	ns := make([]rspec.LinuxNamespace, len(kinds))
	for i, k := range kinds {
		ns[i] = rspec.LinuxNamespace{Type: k}
	}
	return ns
}

// DefaultMounts returns the standard OCI bundle-generator mount set: /proc,
// /dev (tmpfs), /dev/pts, /dev/shm, /dev/mqueue, /sys, and /sys/fs/cgroup.
func DefaultMounts() []rspec.Mount {
	return []rspec.Mount{
		{Destination: "/proc", Type: "proc", Source: "proc"},
		{
			Destination: "/dev", Type: "tmpfs", Source: "tmpfs",
			Options: []string{"nosuid", "strictatime", "mode=755", "size=65536k"},
		},
		{
			Destination: "/dev/pts", Type: "devpts", Source: "devpts",
			Options: []string{"nosuid", "noexec", "newinstance", "ptmxmode=0666", "mode=0620", "gid=5"},
		},
		{
			Destination: "/dev/shm", Type: "tmpfs", Source: "shm",
			Options: []string{"nosuid", "noexec", "nodev", "mode=1777", "size=65536k"},
		},
		{
			Destination: "/dev/mqueue", Type: "mqueue", Source: "mqueue",
			Options: []string{"nosuid", "noexec", "nodev"},
		},
		{
			Destination: "/sys", Type: "sysfs", Source: "sysfs",
			Options: []string{"nosuid", "noexec", "nodev", "ro"},
		},
		{
			Destination: "/sys/fs/cgroup", Type: "cgroup", Source: "cgroup",
			Options: []string{"nosuid", "noexec", "nodev", "relatime", "ro"},
		},
	}
}

// WithUIDGIDMappings attaches user-namespace UID/GID maps to a spec and adds
// a user namespace entry, for rootless operation.
func WithUIDGIDMappings(spec *rspec.Spec, uidMaps, gidMaps []rspec.LinuxIDMapping) {
	spec.Linux.Namespaces = append(spec.Linux.Namespaces, rspec.LinuxNamespace{Type: rspec.UserNamespace})
	spec.Linux.UIDMappings = uidMaps
	spec.Linux.GIDMappings = gidMaps
}
