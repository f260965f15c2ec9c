//go:build linux

package security

import (
	"fmt"
	"strings"

	goselinux "github.com/opencontainers/selinux/go-selinux"

	"github.com/fishmindlab360/bock/bockerr"
)

// SELinuxLabel is a parsed user:role:type[:level] security context, per
// spec §4.7.
type SELinuxLabel struct {
	User  string
	Role  string
	Type  string
	Level string
}

// ParseSELinuxLabel parses a colon-delimited context string.
func ParseSELinuxLabel(context string) (SELinuxLabel, error) {
	parts := strings.Split(context, ":")
	if len(parts) < 3 {
		return SELinuxLabel{}, bockerr.New("security", bockerr.Config, "invalid SELinux label "+context, nil)
	}
	label := SELinuxLabel{User: parts[0], Role: parts[1], Type: parts[2]}
	if len(parts) > 3 {
		label.Level = parts[3]
	}
	return label, nil
}

func (l SELinuxLabel) String() string {
	if l.Level == "" {
		return fmt.Sprintf("%s:%s:%s", l.User, l.Role, l.Type)
	}
	return fmt.Sprintf("%s:%s:%s:%s", l.User, l.Role, l.Type, l.Level)
}

// DefaultSELinuxLabel is bock's container default context.
func DefaultSELinuxLabel() SELinuxLabel {
	return SELinuxLabel{User: "system_u", Role: "system_r", Type: "container_t", Level: "s0"}
}

// SELinuxEnabled reports whether the kernel has SELinux mounted.
func SELinuxEnabled() bool {
	return goselinux.GetEnabled()
}

// ApplySELinuxLabel sets the calling process's exec label for the next
// exec(2), a no-op if SELinux isn't enabled or label is the zero value.
func ApplySELinuxLabel(label SELinuxLabel) error {
	if !SELinuxEnabled() || label == (SELinuxLabel{}) {
		return nil
	}
	if err := goselinux.SetExecLabel(label.String()); err != nil {
		return bockerr.New("security", bockerr.PermissionDenied, "apply SELinux label "+label.String(), err)
	}
	return nil
}
