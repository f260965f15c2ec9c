// Package namespace maps OCI namespace types to Linux unshare flags and
// manages user-namespace UID/GID mappings, per spec §4.5.
package namespace

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/bockerr"
)

// unshareFlags maps an OCI namespace type to its clone(2)/unshare(2) flag.
// Time namespaces are accepted in runtime-spec but not projected here, per
// spec §4.5.
var unshareFlags = map[rspec.LinuxNamespaceType]uintptr{
	rspec.PIDNamespace:     unix.CLONE_NEWPID,
	rspec.NetworkNamespace: unix.CLONE_NEWNET,
	rspec.MountNamespace:   unix.CLONE_NEWNS,
	rspec.IPCNamespace:     unix.CLONE_NEWIPC,
	rspec.UTSNamespace:     unix.CLONE_NEWUTS,
	rspec.UserNamespace:    unix.CLONE_NEWUSER,
	rspec.CgroupNamespace:  unix.CLONE_NEWCGROUP,
}

// CloneFlags ORs together the unshare flags for a set of OCI namespaces,
// skipping any type with no flag mapping (currently only "time").
func CloneFlags(namespaces []rspec.LinuxNamespace) uintptr {
	var flags uintptr
	for _, ns := range namespaces {
		if f, ok := unshareFlags[ns.Type]; ok {
			flags |= f
		}
	}
	return flags
}

// IDMap is one line of a uid_map/gid_map: "container_id host_id size".
type IDMap struct {
	ContainerID uint32
	HostID      uint32
	Size        uint32
}

func (m IDMap) procFormat() string {
	return fmt.Sprintf("%d %d %d", m.ContainerID, m.HostID, m.Size)
}

// IdentityMap is a 1:1 mapping of the current UID/GID, used for root-run
// (non-rootless) containers.
func IdentityMap(id uint32) IDMap {
	return IDMap{ContainerID: 0, HostID: id, Size: 1}
}

// WriteUIDMap writes pid's uid_map, per spec §4.5.
func WriteUIDMap(pid int, maps []IDMap) error {
	return writeIDMap(fmt.Sprintf("/proc/%d/uid_map", pid), maps)
}

// WriteGIDMap writes "deny" to pid's setgroups file (if present) before
// writing gid_map — required by the kernel for unprivileged user
// namespaces, per spec §4.5.
func WriteGIDMap(pid int, maps []IDMap) error {
	setgroups := fmt.Sprintf("/proc/%d/setgroups", pid)
	if _, err := os.Stat(setgroups); err == nil {
		_ = os.WriteFile(setgroups, []byte("deny"), 0o644)
	}
	return writeIDMap(fmt.Sprintf("/proc/%d/gid_map", pid), maps)
}

func writeIDMap(path string, maps []IDMap) error {
	lines := make([]string, len(maps))
	for i, m := range maps {
		lines[i] = m.procFormat()
	}
	content := strings.Join(lines, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return bockerr.New("namespace", bockerr.Io, "write "+path, err)
	}
	return nil
}

// RootlessMaps derives a two-line UID or GID map for rootless operation:
// an identity mapping of the current id to container id 0, followed by the
// subordinate range read from /etc/subuid or /etc/subgid (matched by id or
// username). If the sub-id file is unreadable, only the identity mapping is
// returned, per spec §4.5.
func RootlessMaps(subIDFile string, id uint32, username string) []IDMap {
	maps := []IDMap{{ContainerID: 0, HostID: id, Size: 1}}

	start, count, ok := readSubID(subIDFile, id, username)
	if !ok {
		return maps
	}
	return append(maps, IDMap{ContainerID: 1, HostID: start, Size: count})
}

// readSubID scans /etc/subuid or /etc/subgid for a line "name:start:count"
// matching id (by numeric string) or username.
func readSubID(path string, id uint32, username string) (start, count uint32, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, false
	}
	idStr := strconv.FormatUint(uint64(id), 10)

	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Split(line, ":")
		if len(parts) < 3 {
			continue
		}
		if parts[0] != idStr && parts[0] != username {
			continue
		}
		s, errS := strconv.ParseUint(parts[1], 10, 32)
		c, errC := strconv.ParseUint(parts[2], 10, 32)
		if errS != nil || errC != nil {
			continue
		}
		return uint32(s), uint32(c), true
	}
	return 0, 0, false
}

// UserNamespaceAvailable reports whether the kernel exposes user
// namespaces at all.
func UserNamespaceAvailable() bool {
	_, err := os.Stat("/proc/self/ns/user")
	return err == nil
}
