//go:build linux

package security

import "golang.org/x/sys/unix"

// syscallNumbers maps syscall names, as they appear in an OCI seccomp
// profile's syscalls[].names, to their number on the architecture this
// binary was built for. golang.org/x/sys/unix's SYS_* constants are
// generated per-GOARCH, so this single table is correct for whichever of
// x86_64/aarch64 the binary targets without any runtime branching, per
// spec §4.7's "at minimum x86_64 and aarch64" requirement.
var syscallNumbers = map[string]int64{
	"read": unix.SYS_READ, "write": unix.SYS_WRITE, "open": unix.SYS_OPENAT,
	"openat": unix.SYS_OPENAT, "close": unix.SYS_CLOSE, "stat": unix.SYS_NEWFSTATAT,
	"fstat": unix.SYS_FSTAT, "lstat": unix.SYS_NEWFSTATAT, "poll": unix.SYS_PPOLL,
	"lseek": unix.SYS_LSEEK, "mmap": unix.SYS_MMAP, "mprotect": unix.SYS_MPROTECT,
	"munmap": unix.SYS_MUNMAP, "brk": unix.SYS_BRK, "rt_sigaction": unix.SYS_RT_SIGACTION,
	"rt_sigprocmask": unix.SYS_RT_SIGPROCMASK, "rt_sigreturn": unix.SYS_RT_SIGRETURN,
	"ioctl": unix.SYS_IOCTL, "pread64": unix.SYS_PREAD64, "pwrite64": unix.SYS_PWRITE64,
	"readv": unix.SYS_READV, "writev": unix.SYS_WRITEV, "access": unix.SYS_FACCESSAT,
	"pipe": unix.SYS_PIPE2, "pipe2": unix.SYS_PIPE2, "select": unix.SYS_PSELECT6,
	"sched_yield": unix.SYS_SCHED_YIELD, "mremap": unix.SYS_MREMAP, "msync": unix.SYS_MSYNC,
	"mincore": unix.SYS_MINCORE, "madvise": unix.SYS_MADVISE, "dup": unix.SYS_DUP,
	"dup2": unix.SYS_DUP3, "dup3": unix.SYS_DUP3, "pause": unix.SYS_PAUSE,
	"nanosleep": unix.SYS_NANOSLEEP, "getitimer": unix.SYS_GETITIMER,
	"setitimer": unix.SYS_SETITIMER, "getpid": unix.SYS_GETPID, "sendfile": unix.SYS_SENDFILE,
	"socket": unix.SYS_SOCKET, "connect": unix.SYS_CONNECT, "accept": unix.SYS_ACCEPT,
	"sendto": unix.SYS_SENDTO, "recvfrom": unix.SYS_RECVFROM, "sendmsg": unix.SYS_SENDMSG,
	"recvmsg": unix.SYS_RECVMSG, "shutdown": unix.SYS_SHUTDOWN, "bind": unix.SYS_BIND,
	"listen": unix.SYS_LISTEN, "getsockname": unix.SYS_GETSOCKNAME,
	"getpeername": unix.SYS_GETPEERNAME, "socketpair": unix.SYS_SOCKETPAIR,
	"setsockopt": unix.SYS_SETSOCKOPT, "getsockopt": unix.SYS_GETSOCKOPT,
	"clone": unix.SYS_CLONE, "fork": unix.SYS_CLONE, "vfork": unix.SYS_CLONE,
	"execve": unix.SYS_EXECVE, "exit": unix.SYS_EXIT, "wait4": unix.SYS_WAIT4,
	"kill": unix.SYS_KILL, "uname": unix.SYS_UNAME, "fcntl": unix.SYS_FCNTL,
	"flock": unix.SYS_FLOCK, "fsync": unix.SYS_FSYNC, "fdatasync": unix.SYS_FDATASYNC,
	"truncate": unix.SYS_TRUNCATE, "ftruncate": unix.SYS_FTRUNCATE,
	"getdents": unix.SYS_GETDENTS64, "getdents64": unix.SYS_GETDENTS64, "getcwd": unix.SYS_GETCWD,
	"chdir": unix.SYS_CHDIR, "fchdir": unix.SYS_FCHDIR, "rename": unix.SYS_RENAMEAT,
	"mkdir": unix.SYS_MKDIRAT, "rmdir": unix.SYS_UNLINKAT, "creat": unix.SYS_OPENAT,
	"link": unix.SYS_LINKAT, "unlink": unix.SYS_UNLINKAT, "symlink": unix.SYS_SYMLINKAT,
	"readlink": unix.SYS_READLINKAT, "chmod": unix.SYS_FCHMODAT, "fchmod": unix.SYS_FCHMOD,
	"chown": unix.SYS_FCHOWNAT, "fchown": unix.SYS_FCHOWN, "lchown": unix.SYS_FCHOWNAT,
	"umask": unix.SYS_UMASK, "gettimeofday": unix.SYS_GETTIMEOFDAY, "getrlimit": unix.SYS_GETRLIMIT,
	"getrusage": unix.SYS_GETRUSAGE, "sysinfo": unix.SYS_SYSINFO, "times": unix.SYS_TIMES,
	"ptrace": unix.SYS_PTRACE, "getuid": unix.SYS_GETUID, "syslog": unix.SYS_SYSLOG,
	"getgid": unix.SYS_GETGID, "setuid": unix.SYS_SETUID, "setgid": unix.SYS_SETGID,
	"geteuid": unix.SYS_GETEUID, "getegid": unix.SYS_GETEGID, "setpgid": unix.SYS_SETPGID,
	"getppid": unix.SYS_GETPPID, "getpgrp": unix.SYS_GETPGRP, "setsid": unix.SYS_SETSID,
	"setreuid": unix.SYS_SETREUID, "setregid": unix.SYS_SETREGID, "getgroups": unix.SYS_GETGROUPS,
	"setgroups": unix.SYS_SETGROUPS, "setresuid": unix.SYS_SETRESUID, "getresuid": unix.SYS_GETRESUID,
	"setresgid": unix.SYS_SETRESGID, "getresgid": unix.SYS_GETRESGID, "getpgid": unix.SYS_GETPGID,
	"setfsuid": unix.SYS_SETFSUID, "setfsgid": unix.SYS_SETFSGID, "getsid": unix.SYS_GETSID,
	"capget": unix.SYS_CAPGET, "capset": unix.SYS_CAPSET, "rt_sigpending": unix.SYS_RT_SIGPENDING,
	"rt_sigtimedwait": unix.SYS_RT_SIGTIMEDWAIT, "rt_sigqueueinfo": unix.SYS_RT_SIGQUEUEINFO,
	"rt_sigsuspend": unix.SYS_RT_SIGSUSPEND, "sigaltstack": unix.SYS_SIGALTSTACK,
	"mknod": unix.SYS_MKNODAT, "statfs": unix.SYS_STATFS, "fstatfs": unix.SYS_FSTATFS,
	"getpriority": unix.SYS_GETPRIORITY, "setpriority": unix.SYS_SETPRIORITY,
	"sched_setparam": unix.SYS_SCHED_SETPARAM, "sched_getparam": unix.SYS_SCHED_GETPARAM,
	"sched_setscheduler": unix.SYS_SCHED_SETSCHEDULER, "sched_getscheduler": unix.SYS_SCHED_GETSCHEDULER,
	"sched_get_priority_max": unix.SYS_SCHED_GET_PRIORITY_MAX,
	"sched_get_priority_min": unix.SYS_SCHED_GET_PRIORITY_MIN,
	"sched_rr_get_interval": unix.SYS_SCHED_RR_GET_INTERVAL, "mlock": unix.SYS_MLOCK,
	"munlock": unix.SYS_MUNLOCK, "mlockall": unix.SYS_MLOCKALL, "munlockall": unix.SYS_MUNLOCKALL,
	"prctl": unix.SYS_PRCTL, "arch_prctl": unix.SYS_ARCH_PRCTL, "setrlimit": unix.SYS_SETRLIMIT,
	"sync": unix.SYS_SYNC, "gettid": unix.SYS_GETTID, "futex": unix.SYS_FUTEX,
	"sched_setaffinity": unix.SYS_SCHED_SETAFFINITY, "sched_getaffinity": unix.SYS_SCHED_GETAFFINITY,
	"epoll_create": unix.SYS_EPOLL_CREATE1, "epoll_create1": unix.SYS_EPOLL_CREATE1,
	"epoll_ctl": unix.SYS_EPOLL_CTL, "epoll_wait": unix.SYS_EPOLL_PWAIT,
	"epoll_pwait": unix.SYS_EPOLL_PWAIT, "eventfd": unix.SYS_EVENTFD2, "eventfd2": unix.SYS_EVENTFD2,
	"signalfd": unix.SYS_SIGNALFD4, "signalfd4": unix.SYS_SIGNALFD4,
	"timerfd_create": unix.SYS_TIMERFD_CREATE, "timerfd_settime": unix.SYS_TIMERFD_SETTIME,
	"timerfd_gettime": unix.SYS_TIMERFD_GETTIME, "accept4": unix.SYS_ACCEPT4,
	"waitid": unix.SYS_WAITID, "exit_group": unix.SYS_EXIT_GROUP, "set_tid_address": unix.SYS_SET_TID_ADDRESS,
	"clock_gettime": unix.SYS_CLOCK_GETTIME, "clock_getres": unix.SYS_CLOCK_GETRES,
	"clock_nanosleep": unix.SYS_CLOCK_NANOSLEEP, "set_robust_list": unix.SYS_SET_ROBUST_LIST,
	"get_robust_list": unix.SYS_GET_ROBUST_LIST, "pselect6": unix.SYS_PSELECT6,
	"ppoll": unix.SYS_PPOLL, "openat2": unix.SYS_OPENAT2, "utimensat": unix.SYS_UTIMENSAT,
	"fallocate": unix.SYS_FALLOCATE, "tgkill": unix.SYS_TGKILL, "tkill": unix.SYS_TKILL,
	"getrandom": unix.SYS_GETRANDOM, "copy_file_range": unix.SYS_COPY_FILE_RANGE,
	"renameat2": unix.SYS_RENAMEAT2, "name_to_handle_at": unix.SYS_NAME_TO_HANDLE_AT,
	"statx": unix.SYS_STATX, "faccessat2": unix.SYS_FACCESSAT2, "io_uring_setup": unix.SYS_IO_URING_SETUP,
	"io_uring_enter": unix.SYS_IO_URING_ENTER, "pivot_root": unix.SYS_PIVOT_ROOT,
	"mount": unix.SYS_MOUNT, "umount2": unix.SYS_UMOUNT2, "unshare": unix.SYS_UNSHARE,
	"setns": unix.SYS_SETNS, "chroot": unix.SYS_CHROOT, "sethostname": unix.SYS_SETHOSTNAME,
	"setdomainname": unix.SYS_SETDOMAINNAME,
}
