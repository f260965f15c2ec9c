//go:build linux

package security

import (
	"github.com/moby/sys/capability"

	"github.com/fishmindlab360/bock/bockerr"
)

// CapabilitySet is the set of Linux capabilities granted to a container's
// init process, per spec §4.7. Capabilities are named by their CAP_*
// string form, matching the runtime spec's process.capabilities lists.
type CapabilitySet struct {
	Bounding    []string
	Effective   []string
	Inheritable []string
	Permitted   []string
	Ambient     []string
}

// defaultCapabilities mirrors the OCI default bounding set documented for
// unprivileged containers (runc's default profile), matching
// ocispec.DefaultSpec's process.capabilities.
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

// MinimalCapabilities is bock's container default: just enough to behave
// like an ordinary non-root Linux process inside its namespaces, mirroring
// Docker/runc's default set.
func MinimalCapabilities() []string {
	names := make([]string, len(defaultCapabilities))
	copy(names, defaultCapabilities)
	return names
}

// EmptyCapabilitySet drops every capability.
func EmptyCapabilitySet() CapabilitySet {
	return CapabilitySet{}
}

// NewCapabilitySet builds a CapabilitySet applying the same list to every
// capability set kind, which is bock's default posture absent a spec
// override naming different lists per kind.
func NewCapabilitySet(names []string) CapabilitySet {
	return CapabilitySet{
		Bounding:    names,
		Effective:   names,
		Inheritable: names,
		Permitted:   names,
		Ambient:     names,
	}
}

// Apply sets the calling process's capability sets. Bounding and ambient
// are applied best-effort (a process lacking CAP_SETPCAP, or a kernel
// without ambient capability support, cannot set them) since neither is
// required for basic container operation; inheritable, effective, and
// permitted failures are fatal.
func (c CapabilitySet) Apply() error {
	caps, err := capability.NewPid2(0)
	if err != nil {
		return bockerr.New("security", bockerr.Internal, "load process capabilities", err)
	}
	if err := caps.Load(); err != nil {
		return bockerr.New("security", bockerr.Internal, "load process capabilities", err)
	}

	bounding, err := toCapList(c.Bounding)
	if err != nil {
		return err
	}
	caps.Clear(capability.BOUNDING)
	caps.Set(capability.BOUNDING, bounding...)
	if err := caps.Apply(capability.BOUNDING); err != nil {
		// Dropping bounding capabilities requires CAP_SETPCAP; rootless
		// and already-restricted callers commonly lack it.
		_ = err
	}

	inheritable, err := toCapList(c.Inheritable)
	if err != nil {
		return err
	}
	caps.Clear(capability.INHERITABLE)
	caps.Set(capability.INHERITABLE, inheritable...)
	if err := caps.Apply(capability.INHERITABLE); err != nil {
		return bockerr.New("security", bockerr.PermissionDenied, "apply inheritable capabilities", err)
	}

	permitted, err := toCapList(c.Permitted)
	if err != nil {
		return err
	}
	caps.Clear(capability.PERMITTED)
	caps.Set(capability.PERMITTED, permitted...)
	if err := caps.Apply(capability.PERMITTED); err != nil {
		return bockerr.New("security", bockerr.PermissionDenied, "apply permitted capabilities", err)
	}

	effective, err := toCapList(c.Effective)
	if err != nil {
		return err
	}
	caps.Clear(capability.EFFECTIVE)
	caps.Set(capability.EFFECTIVE, effective...)
	if err := caps.Apply(capability.EFFECTIVE); err != nil {
		return bockerr.New("security", bockerr.PermissionDenied, "apply effective capabilities", err)
	}

	ambient, err := toCapList(c.Ambient)
	if err != nil {
		return err
	}
	caps.Clear(capability.AMBIENT)
	caps.Set(capability.AMBIENT, ambient...)
	if err := caps.Apply(capability.AMBIENT); err != nil {
		// Ambient capabilities require kernel 4.3+ and are skipped
		// silently when unsupported.
		_ = err
	}

	return nil
}

func toCapList(names []string) ([]capability.Cap, error) {
	caps := make([]capability.Cap, 0, len(names))
	for _, name := range names {
		cap, err := capability.FromName(name)
		if err != nil {
			return nil, bockerr.New("security", bockerr.Config, "unknown capability "+name, err)
		}
		caps = append(caps, cap)
	}
	return caps, nil
}
