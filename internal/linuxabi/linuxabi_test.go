package linuxabi

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"rvkernel/defs"
)

func TestErrnoConstantsMatchLinuxRiscv64ABI(t *testing.T) {
	cases := []struct {
		name string
		got  defs.Err_t
		want unix.Errno
	}{
		{"EPERM", defs.EPERM, unix.EPERM},
		{"ENOENT", defs.ENOENT, unix.ENOENT},
		{"EAGAIN", defs.EAGAIN, unix.EAGAIN},
		{"ENOMEM", defs.ENOMEM, unix.ENOMEM},
		{"EFAULT", defs.EFAULT, unix.EFAULT},
		{"EEXIST", defs.EEXIST, unix.EEXIST},
		{"ENOTDIR", defs.ENOTDIR, unix.ENOTDIR},
		{"EISDIR", defs.EISDIR, unix.EISDIR},
		{"EINVAL", defs.EINVAL, unix.EINVAL},
		{"EMFILE", defs.EMFILE, unix.EMFILE},
		{"ESPIPE", defs.ESPIPE, unix.ESPIPE},
		{"ERANGE", defs.ERANGE, unix.ERANGE},
		{"ENAMETOOLONG", defs.ENAMETOOLONG, unix.ENAMETOOLONG},
		{"ENOSYS", defs.ENOSYS, unix.ENOSYS},
		{"ETIMEDOUT", defs.ETIMEDOUT, unix.ETIMEDOUT},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.EqualValues(t, c.want, c.got)
		})
	}
}

func TestSyscallNumbersMatchLinuxRiscv64ABI(t *testing.T) {
	cases := []struct {
		name string
		got  int
		want uintptr
	}{
		{"getpid", defs.SYS_getpid, unix.SYS_GETPID},
		{"read", defs.SYS_read, unix.SYS_READ},
		{"write", defs.SYS_write, unix.SYS_WRITE},
		{"close", defs.SYS_close, unix.SYS_CLOSE},
		{"exit", defs.SYS_exit, unix.SYS_EXIT},
		{"exit_group", defs.SYS_exit_group, unix.SYS_EXIT_GROUP},
		{"clone", defs.SYS_clone, unix.SYS_CLONE},
		{"execve", defs.SYS_execve, unix.SYS_EXECVE},
		{"wait4", defs.SYS_wait4, unix.SYS_WAIT4},
		{"brk", defs.SYS_brk, unix.SYS_BRK},
		{"mmap", defs.SYS_mmap, unix.SYS_MMAP},
		{"futex", defs.SYS_futex, unix.SYS_FUTEX},
		{"nanosleep", defs.SYS_nanosleep, unix.SYS_NANOSLEEP},
		{"rt_sigaction", defs.SYS_rt_sigaction, unix.SYS_RT_SIGACTION},
		{"rt_sigreturn", defs.SYS_rt_sigreturn, unix.SYS_RT_SIGRETURN},
		{"uname", defs.SYS_uname, unix.SYS_UNAME},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.EqualValues(t, c.want, c.got)
		})
	}
}
