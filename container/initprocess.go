//go:build linux

package container

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	rspec "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/cgroup"
	"github.com/fishmindlab360/bock/execinit"
	"github.com/fishmindlab360/bock/fsys"
	"github.com/fishmindlab360/bock/security"
)

// initPipes are the fds RunInitProcess inherits from its parent via
// cmd.ExtraFiles, in the order Start attaches them: the parent writes a
// byte to mapReady once uid/gid maps are in place, and this process writes
// a byte to initReady right before handing control to execinit.Init, per
// the two-pipe handshake in spec §4.10.
const (
	mapReadyFd  = 3
	initReadyFd = 4
)

// RunInitProcess is the entry point cmd/bock dispatches to when re-exec'd
// by Start with argv[1] == initProcessArg. It performs spec §4.10's Start
// steps 3-10: wait for uid/gid maps, mount the rootfs's standard
// filesystems and the spec's declared mounts, pivot_root, rejoin the
// container's cgroup, apply resources and security, then exec the
// entrypoint.
func RunInitProcess(ctx context.Context, bundle string) error {
	mapReady := os.NewFile(mapReadyFd, "mapReady")
	initReadyW := os.NewFile(initReadyFd, "initReady")
	defer initReadyW.Close()

	ack := make([]byte, 1)
	if _, err := mapReady.Read(ack); err != nil {
		return bockerr.New("container", bockerr.Internal, "wait for uid/gid maps", err)
	}
	mapReady.Close()

	spec, err := loadBundleSpec(bundle)
	if err != nil {
		return err
	}

	if spec.Linux != nil && spec.Linux.Sysctl != nil {
		if err := applySysctls(spec.Linux.Sysctl); err != nil {
			return err
		}
	}

	if spec.Hostname != "" {
		if err := unix.Sethostname([]byte(spec.Hostname)); err != nil {
			return bockerr.New("container", bockerr.Io, "sethostname", err)
		}
	}

	rootfs := spec.Root.Path

	if err := mountStandardFilesystems(rootfs); err != nil {
		return err
	}
	if err := mountSpecMounts(rootfs, spec.Mounts); err != nil {
		return err
	}
	if spec.Linux != nil {
		if err := applyMaskedPaths(rootfs, spec.Linux.MaskedPaths); err != nil {
			return err
		}
		if err := applyReadonlyPaths(rootfs, spec.Linux.ReadonlyPaths); err != nil {
			return err
		}
	}

	if err := fsys.PivotRoot(rootfs); err != nil {
		return err
	}

	if err := mountProcAfterPivot(); err != nil {
		return err
	}

	id := filepath.Base(bundle)
	mgr, err := cgroup.NewManager(id)
	if err != nil {
		return err
	}
	if err := mgr.AddProcess(os.Getpid()); err != nil {
		return err
	}
	if spec.Linux != nil && spec.Linux.Resources != nil {
		if err := mgr.ApplyResources(resourcesFromSpec(spec.Linux.Resources)); err != nil {
			return err
		}
	}

	secConfig := security.Minimal()
	if spec.Process != nil && spec.Process.Capabilities != nil {
		secConfig.Capabilities = security.NewCapabilitySet(spec.Process.Capabilities.Effective)
	}
	if spec.Linux != nil && spec.Linux.Seccomp != nil {
		secConfig.Seccomp = spec.Linux.Seccomp
	}

	if err := security.Apply(secConfig); err != nil {
		return err
	}

	if spec.Process != nil {
		if err := applyProcessIdentity(spec.Process); err != nil {
			return err
		}
	}

	cwd := "/"
	var args, env []string
	if spec.Process != nil {
		if spec.Process.Cwd != "" {
			cwd = spec.Process.Cwd
		}
		args = spec.Process.Args
		env = spec.Process.Env
	}
	if err := os.Chdir(cwd); err != nil {
		return bockerr.New("container", bockerr.Io, "chdir to "+cwd, err)
	}

	if _, err := initReadyW.Write([]byte{1}); err != nil {
		return bockerr.New("container", bockerr.Internal, "signal init readiness", err)
	}

	in := &execinit.Init{
		Args:   args,
		Env:    env,
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

func loadBundleSpec(bundle string) (*rspec.Spec, error) {
	data, err := os.ReadFile(filepath.Join(bundle, "config.json"))
	if err != nil {
		return nil, bockerr.New("container", bockerr.Io, "read config.json from bundle", err)
	}
	var spec rspec.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, bockerr.New("container", bockerr.Serialization, "parse config.json from bundle", err)
	}
	return &spec, nil
}

func applySysctls(sysctl map[string]string) error {
	for key, value := range sysctl {
		path := "/proc/sys/" + strings.ReplaceAll(key, ".", "/")
		if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
			return bockerr.New("container", bockerr.Io, "set sysctl "+key, err)
		}
	}
	return nil
}

// mountStandardFilesystems mounts /proc, /dev/pts, and /dev/shm over the
// scaffolded directories fsys.Scaffold already created, per spec §4.4.
func mountStandardFilesystems(rootfs string) error {
	proc := filepath.Join(rootfs, "proc")
	if err := unix.Mount("proc", proc, "proc", 0, ""); err != nil {
		return bockerr.New("container", bockerr.Io, "mount proc", err)
	}

	devpts := filepath.Join(rootfs, "dev", "pts")
	if err := unix.Mount("devpts", devpts, "devpts", unix.MS_NOSUID|unix.MS_NOEXEC,
		"newinstance,ptmxmode=0666,mode=0620"); err != nil {
		return bockerr.New("container", bockerr.Io, "mount devpts", err)
	}

	shm := filepath.Join(rootfs, "dev", "shm")
	if err := unix.Mount("shm", shm, "tmpfs", unix.MS_NOSUID|unix.MS_NODEV,
		"mode=1777,size=65536k"); err != nil {
		return bockerr.New("container", bockerr.Io, "mount /dev/shm", err)
	}

	sys := filepath.Join(rootfs, "sys")
	if err := unix.Mount("sysfs", sys, "sysfs", unix.MS_RDONLY|unix.MS_NOSUID|unix.MS_NODEV|unix.MS_NOEXEC, ""); err != nil {
		return bockerr.New("container", bockerr.Io, "mount sysfs", err)
	}

	return nil
}

// mountSpecMounts processes the runtime spec's mounts list in order, per
// spec §4.4: bind mounts get the two-pass bind-then-remount-ro treatment,
// everything else mounts directly with the translated flags and data.
func mountSpecMounts(rootfs string, mounts []rspec.Mount) error {
	for _, m := range mounts {
		target := filepath.Join(rootfs, m.Destination)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return bockerr.New("container", bockerr.Io, "create mount target "+m.Destination, err)
		}

		flags, data := mountFlagsAndData(m.Options)

		if isBind(m.Options) {
			if err := fsys.BindMount(m.Source, target, isReadonly(m.Options)); err != nil {
				return err
			}
			continue
		}

		if err := unix.Mount(m.Source, target, m.Type, flags, data); err != nil {
			return bockerr.New("container", bockerr.Io, "mount "+m.Destination, err)
		}
	}
	return nil
}

func applyMaskedPaths(rootfs string, paths []string) error {
	for _, p := range paths {
		target := filepath.Join(rootfs, p)
		info, err := os.Stat(target)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return bockerr.New("container", bockerr.Io, "stat masked path "+p, err)
		}
		if info.IsDir() {
			if err := unix.Mount("tmpfs", target, "tmpfs", unix.MS_RDONLY, ""); err != nil {
				return bockerr.New("container", bockerr.Io, "mask directory "+p, err)
			}
			continue
		}
		if err := unix.Mount("/dev/null", target, "", unix.MS_BIND, ""); err != nil {
			return bockerr.New("container", bockerr.Io, "mask file "+p, err)
		}
	}
	return nil
}

func applyReadonlyPaths(rootfs string, paths []string) error {
	for _, p := range paths {
		target := filepath.Join(rootfs, p)
		if _, err := os.Stat(target); os.IsNotExist(err) {
			continue
		}
		if err := unix.Mount(target, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
			return bockerr.New("container", bockerr.Io, "bind readonly path "+p, err)
		}
		if err := unix.Mount("", target, "", unix.MS_BIND|unix.MS_REMOUNT|unix.MS_RDONLY|unix.MS_REC, ""); err != nil {
			return bockerr.New("container", bockerr.Io, "remount readonly path "+p, err)
		}
	}
	return nil
}

// mountProcAfterPivot remounts /proc once inside the new root: the mount
// made before pivot_root refers to the pre-pivot mount namespace view and
// must be replaced so /proc/self resolves within the new pid namespace.
func mountProcAfterPivot() error {
	_ = unix.Unmount("/proc", unix.MNT_DETACH)
	if err := unix.Mount("proc", "/proc", "proc", 0, ""); err != nil {
		return bockerr.New("container", bockerr.Io, "remount /proc after pivot_root", err)
	}
	return nil
}

func applyProcessIdentity(p *rspec.Process) error {
	if err := unix.Setgid(int(p.User.GID)); err != nil {
		return bockerr.New("container", bockerr.Io, "setgid", err)
	}
	groups := make([]int, len(p.User.AdditionalGids))
	for i, g := range p.User.AdditionalGids {
		groups[i] = int(g)
	}
	if len(groups) > 0 {
		if err := unix.Setgroups(groups); err != nil {
			return bockerr.New("container", bockerr.Io, "setgroups", err)
		}
	}
	if err := unix.Setuid(int(p.User.UID)); err != nil {
		return bockerr.New("container", bockerr.Io, "setuid", err)
	}
	return nil
}
