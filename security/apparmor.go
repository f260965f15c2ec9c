//go:build linux

package security

import (
	"os"

	"github.com/moby/profiles/apparmor"

	"github.com/fishmindlab360/bock/bockerr"
)

// DefaultAppArmorProfile is the name bock installs and applies when a
// container doesn't request a custom profile or "unconfined", per
// spec §4.7.
const DefaultAppArmorProfile = "bock-default"

// AppArmorEnabled reports whether the kernel has AppArmor support loaded.
func AppArmorEnabled() bool {
	return apparmor.IsEnabled()
}

// InstallDefaultAppArmorProfile generates and loads bock's default profile
// via apparmor_parser. A no-op if AppArmor isn't available.
func InstallDefaultAppArmorProfile() error {
	if !AppArmorEnabled() {
		return nil
	}
	if err := apparmor.InstallDefault(DefaultAppArmorProfile); err != nil {
		return bockerr.New("security", bockerr.Internal, "install default AppArmor profile", err)
	}
	return nil
}

// ApplyAppArmorProfile confines the calling process's next exec to name.
// "unconfined" and an empty profile are both treated as "do nothing",
// matching runc/Docker's convention.
func ApplyAppArmorProfile(name string) error {
	if !AppArmorEnabled() || name == "" || name == "unconfined" {
		return nil
	}

	execPath := "/proc/self/attr/apparmor/exec"
	if _, err := os.Stat(execPath); err != nil {
		execPath = "/proc/self/attr/exec"
	}

	if err := os.WriteFile(execPath, []byte("exec "+name), 0); err != nil {
		if os.IsPermission(err) {
			return bockerr.New("security", bockerr.PermissionDenied, "apply AppArmor profile "+name, err)
		}
		return bockerr.New("security", bockerr.Internal, "apply AppArmor profile "+name, err)
	}
	return nil
}
