package main

import (
	"encoding/json"
	"os"

	rspec "github.com/opencontainers/runtime-spec/specs-go"
)

// SpecCmd implements `bock spec [--output path] [--rootless]`, generating
// a default config.json the way `runc spec` does, per spec §6.
type SpecCmd struct {
	Output   string `default:"config.json" help:"output path"`
	Rootless bool   `help:"generate a rootless-compatible spec"`
}

func (c *SpecCmd) Run(cctx *Context) error {
	spec := defaultSpec(c.Rootless)
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.Output, data, 0o644)
}

func defaultSpec(rootless bool) *rspec.Spec {
	namespaces := []rspec.LinuxNamespace{
		{Type: rspec.PIDNamespace},
		{Type: rspec.NetworkNamespace},
		{Type: rspec.MountNamespace},
		{Type: rspec.IPCNamespace},
		{Type: rspec.UTSNamespace},
	}

	var uidMappings, gidMappings []rspec.LinuxIDMapping
	if rootless {
		namespaces = append(namespaces, rspec.LinuxNamespace{Type: rspec.UserNamespace})
		uidMappings = []rspec.LinuxIDMapping{{ContainerID: 0, HostID: uint32(os.Getuid()), Size: 1}}
		gidMappings = []rspec.LinuxIDMapping{{ContainerID: 0, HostID: uint32(os.Getgid()), Size: 1}}
	}

	return &rspec.Spec{
		Version: "1.2.0",
		Process: &rspec.Process{
			Terminal: true,
			User:     rspec.User{UID: 0, GID: 0},
			Args:     []string{"sh"},
			Env:      []string{"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"},
			Cwd:      "/",
		},
		Root: &rspec.Root{Path: "rootfs", Readonly: true},
		Hostname: "bock",
		Mounts: []rspec.Mount{
			{Destination: "/proc", Type: "proc", Source: "proc"},
			{Destination: "/dev", Type: "tmpfs", Source: "tmpfs", Options: []string{"nosuid", "strictatime", "mode=755", "size=65536k"}},
			{Destination: "/dev/pts", Type: "devpts", Source: "devpts", Options: []string{"nosuid", "noexec", "newinstance", "ptmxmode=0666", "mode=0620"}},
			{Destination: "/dev/shm", Type: "tmpfs", Source: "shm", Options: []string{"nosuid", "noexec", "nodev", "mode=1777", "size=65536k"}},
			{Destination: "/sys", Type: "sysfs", Source: "sysfs", Options: []string{"nosuid", "noexec", "nodev", "ro"}},
		},
		Linux: &rspec.Linux{
			Namespaces:  namespaces,
			UIDMappings: uidMappings,
			GIDMappings: gidMappings,
			MaskedPaths: []string{
				"/proc/acpi", "/proc/kcore", "/proc/keys", "/proc/latency_stats",
				"/proc/timer_list", "/proc/timer_stats", "/proc/sched_debug",
				"/sys/firmware", "/proc/scsi",
			},
			ReadonlyPaths: []string{
				"/proc/asound", "/proc/bus", "/proc/fs", "/proc/irq",
				"/proc/sys", "/proc/sysrq-trigger",
			},
		},
	}
}
