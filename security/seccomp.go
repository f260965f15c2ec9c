//go:build linux

package security

import (
	"runtime"
	"unsafe"

	seccompprofiles "github.com/moby/profiles/seccomp"
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
)

const (
	auditArchX86_64  = 0xc000003e
	auditArchAARCH64 = 0xc00000b7
)

func auditArch() (uint32, bool) {
	switch runtime.GOARCH {
	case "amd64":
		return auditArchX86_64, true
	case "arm64":
		return auditArchAARCH64, true
	default:
		return 0, false
	}
}

// DefaultSeccompProfile returns bock's default seccomp profile: a
// default-deny posture with an explicit allow list, per spec §4.7.
func DefaultSeccompProfile() (*specs.LinuxSeccomp, error) {
	profile := seccompprofiles.DefaultProfile()
	if profile == nil {
		return nil, bockerr.New("security", bockerr.Internal, "no default seccomp profile", nil)
	}
	return profile, nil
}

// CompileSeccomp lowers an OCI seccomp profile to a classic BPF program.
// Every allowed syscall compiles to a single JEQ test immediately followed
// by a RET_ALLOW, so no jump in the program ever needs to skip more than
// one instruction — this sidesteps classic BPF's 8-bit jump-offset limit
// without a binary-search compiler. Argument-conditioned rules are not
// compiled, and names missing from syscallNumbers are skipped; only the
// bare names that table knows are allowed, and every other syscall gets
// the default action.
func CompileSeccomp(profile *specs.LinuxSeccomp) ([]unix.SockFilter, error) {
	arch, ok := auditArch()
	if !ok {
		return nil, bockerr.New("security", bockerr.Unsupported, "seccomp: unsupported GOARCH "+runtime.GOARCH, nil)
	}

	defaultAction := seccompRetAction(profile.DefaultAction, profile.DefaultErrnoRet)

	prog := []unix.SockFilter{
		bpfStmt(unix.BPF_LD|unix.BPF_W|unix.BPF_ABS, 4), // seccomp_data.arch
		bpfJump(unix.BPF_JMP|unix.BPF_JEQ|unix.BPF_K, arch, 1, 0),
		bpfStmt(unix.BPF_RET|unix.BPF_K, defaultAction),
		bpfStmt(unix.BPF_LD|unix.BPF_W|unix.BPF_ABS, 0), // seccomp_data.nr
	}

	seen := make(map[int64]bool)
	for _, rule := range profile.Syscalls {
		if rule.Action != specs.ActAllow || len(rule.Args) > 0 {
			continue
		}
		for _, name := range rule.Names {
			nr, ok := syscallNumbers[name]
			if !ok || seen[nr] {
				continue
			}
			seen[nr] = true
			prog = append(prog,
				bpfJump(unix.BPF_JMP|unix.BPF_JEQ|unix.BPF_K, uint32(nr), 0, 1),
				bpfStmt(unix.BPF_RET|unix.BPF_K, unix.SECCOMP_RET_ALLOW),
			)
		}
	}

	prog = append(prog, bpfStmt(unix.BPF_RET|unix.BPF_K, defaultAction))
	return prog, nil
}

func seccompRetAction(action specs.LinuxSeccompAction, errnoRet *uint) uint32 {
	switch action {
	case specs.ActAllow:
		return unix.SECCOMP_RET_ALLOW
	case specs.ActKill, specs.ActKillProcess, specs.ActKillThread:
		return unix.SECCOMP_RET_KILL_PROCESS
	case specs.ActTrap:
		return unix.SECCOMP_RET_TRAP
	case specs.ActLog:
		return unix.SECCOMP_RET_LOG
	case specs.ActErrno:
		errno := uint32(unix.EPERM)
		if errnoRet != nil {
			errno = uint32(*errnoRet)
		}
		return unix.SECCOMP_RET_ERRNO | (errno & 0xffff)
	default:
		return unix.SECCOMP_RET_ERRNO | (uint32(unix.EPERM) & 0xffff)
	}
}

func bpfStmt(code uint16, k uint32) unix.SockFilter {
	return unix.SockFilter{Code: code, K: k}
}

func bpfJump(code uint16, k uint32, jt, jf uint8) unix.SockFilter {
	return unix.SockFilter{Code: code, Jt: jt, Jf: jf, K: k}
}

// InstallSeccomp loads prog as the calling thread's seccomp filter. It must
// run after no_new_privs has already been set, and last in spec §4.7's
// security application order since nothing may run after it except the
// syscalls the filter allows.
func InstallSeccomp(prog []unix.SockFilter) error {
	if len(prog) == 0 {
		return bockerr.New("security", bockerr.Internal, "install seccomp", nil)
	}
	fprog := unix.SockFprog{
		Len:    uint16(len(prog)),
		Filter: &prog[0],
	}
	if err := unix.Prctl(unix.PR_SET_SECCOMP, uintptr(unix.SECCOMP_MODE_FILTER), uintptr(unsafe.Pointer(&fprog)), 0, 0); err != nil {
		return bockerr.New("security", bockerr.Io, "install seccomp filter", err)
	}
	return nil
}
