//go:build linux

// Package security applies the hardening bock's container init enforces
// before handing control to the container's entrypoint: no_new_privs,
// Linux capabilities, AppArmor, SELinux, and seccomp, in that order, per
// spec §4.7. Seccomp must run last since it is the one layer that can
// itself forbid the syscalls the earlier steps still need to make.
package security

import (
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
)

// Config is bock's resolved security posture for one container, built
// from the runtime spec's process.capabilities, linux.seccomp, and the
// annotations/fields carrying the AppArmor profile and SELinux label.
type Config struct {
	NoNewPrivileges bool
	Capabilities    CapabilitySet
	AppArmorProfile string
	SELinuxLabel    SELinuxLabel
	Seccomp         *specs.LinuxSeccomp
}

// Minimal returns a container-defaults posture: no_new_privs set, bock's
// minimal capability set, no mandatory-access-control profile, no seccomp
// filter.
func Minimal() Config {
	return Config{
		NoNewPrivileges: true,
		Capabilities:    NewCapabilitySet(MinimalCapabilities()),
	}
}

// Hardened returns bock's most restrictive built-in posture: the minimal
// capability set, bock's default AppArmor profile, and the default-deny
// seccomp profile.
func Hardened() (Config, error) {
	profile, err := DefaultSeccompProfile()
	if err != nil {
		return Config{}, err
	}
	return Config{
		NoNewPrivileges: true,
		Capabilities:    NewCapabilitySet(MinimalCapabilities()),
		AppArmorProfile: DefaultAppArmorProfile,
		Seccomp:         profile,
	}, nil
}

// Apply enforces c on the calling process, in the fixed order spec §4.7
// requires. It must run on the container's init process after namespace
// entry and pivot_root, and before exec into the container's entrypoint.
func Apply(c Config) error {
	if c.NoNewPrivileges {
		if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
			return bockerr.New("security", bockerr.Io, "set no_new_privs", err)
		}
	}

	if err := c.Capabilities.Apply(); err != nil {
		return err
	}

	if err := ApplyAppArmorProfile(c.AppArmorProfile); err != nil {
		return err
	}

	if err := ApplySELinuxLabel(c.SELinuxLabel); err != nil {
		return err
	}

	if c.Seccomp != nil {
		prog, err := CompileSeccomp(c.Seccomp)
		if err != nil {
			return err
		}
		if err := InstallSeccomp(prog); err != nil {
			return err
		}
	}

	return nil
}
