//go:build linux

package security

import (
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"
)

func TestAuditArchKnownGOARCH(t *testing.T) {
	arch, ok := auditArch()
	if ok && arch != auditArchX86_64 && arch != auditArchAARCH64 {
		t.Errorf("unexpected audit arch constant %#x", arch)
	}
}

func allowProfile(names ...string) *specs.LinuxSeccomp {
	return &specs.LinuxSeccomp{
		DefaultAction: specs.ActErrno,
		Syscalls: []specs.LinuxSyscall{
			{Names: names, Action: specs.ActAllow},
		},
	}
}

func TestCompileSeccompProducesTerminatingProgram(t *testing.T) {
	prog, err := CompileSeccomp(allowProfile("read", "write", "exit_group"))
	if err != nil {
		t.Fatalf("CompileSeccomp: %v", err)
	}
	if len(prog) == 0 {
		t.Fatal("expected a non-empty program")
	}
	last := prog[len(prog)-1]
	if last.Code != unix.BPF_RET|unix.BPF_K {
		t.Fatalf("last instruction must be a RET, got code %#x", last.Code)
	}
}

func TestCompileSeccompSkipsUnknownSyscalls(t *testing.T) {
	prog, err := CompileSeccomp(allowProfile("not_a_real_syscall"))
	if err != nil {
		t.Fatalf("CompileSeccomp: %v", err)
	}
	// header (4 instructions) + trailing default RET = 5, nothing allowed.
	if len(prog) != 5 {
		t.Errorf("expected unknown syscalls to be skipped, got %d instructions", len(prog))
	}
}

func TestCompileSeccompDedupesRepeatedSyscalls(t *testing.T) {
	prog, err := CompileSeccomp(allowProfile("read", "read"))
	if err != nil {
		t.Fatalf("CompileSeccomp: %v", err)
	}
	// header(4) + one allowed syscall (2 instructions) + trailing default(1) = 7
	if len(prog) != 7 {
		t.Errorf("expected deduplication, got %d instructions", len(prog))
	}
}

func TestSeccompRetActionErrnoDefaultsToEPERM(t *testing.T) {
	got := seccompRetAction(specs.ActErrno, nil)
	want := unix.SECCOMP_RET_ERRNO | (uint32(unix.EPERM) & 0xffff)
	if got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

func TestInstallSeccompRejectsEmptyProgram(t *testing.T) {
	if err := InstallSeccomp(nil); err == nil {
		t.Fatal("expected error installing an empty program")
	}
}
