package defs

// Syscall numbers, RISC-V Linux ABI (§6). Authoritative list the dispatch
// table in package syscall switches on.
const (
	SYS_getcwd         = 17
	SYS_dup            = 23
	SYS_dup3           = 24
	SYS_fcntl          = 25
	SYS_mkdirat        = 34
	SYS_unlinkat       = 35
	SYS_umount2        = 39
	SYS_mount          = 40
	SYS_statfs         = 43
	SYS_ftruncate      = 46
	SYS_chdir          = 49
	SYS_openat         = 56
	SYS_close          = 57
	SYS_pipe2          = 59
	SYS_getdents64     = 61
	SYS_lseek          = 62
	SYS_read           = 63
	SYS_write          = 64
	SYS_readv          = 65
	SYS_writev         = 66
	SYS_pread          = 67
	SYS_sendfile       = 71
	SYS_ppoll          = 73
	SYS_readlinkat     = 78
	SYS_fstatat        = 79
	SYS_fstat          = 80
	SYS_utimensat      = 88
	SYS_exit           = 93
	SYS_exit_group     = 94
	SYS_set_tid_address = 96
	SYS_futex          = 98
	SYS_nanosleep      = 101
	SYS_clock_gettime  = 113
	SYS_sched_yield    = 124
	SYS_kill           = 129
	SYS_tkill          = 130
	SYS_tgkill         = 131
	SYS_rt_sigaction   = 134
	SYS_rt_sigprocmask = 135
	SYS_rt_sigreturn   = 139
	SYS_times          = 153
	SYS_uname          = 160
	SYS_getrusage      = 165
	SYS_gettimeofday   = 169
	SYS_getpid         = 172
	SYS_getppid        = 173
	SYS_getuid         = 174
	SYS_geteuid        = 175
	SYS_getgid         = 176
	SYS_getegid        = 177
	SYS_gettid         = 178
	SYS_brk            = 214
	SYS_munmap         = 215
	SYS_clone          = 220
	SYS_execve         = 221
	SYS_mmap           = 222
	SYS_mprotect       = 226
	SYS_wait4          = 260

	// socket / IPC stub (§4.12)
	SYS_socket      = 198
	SYS_bind        = 200
	SYS_listen      = 201
	SYS_connect     = 203
	SYS_accept      = 202
	SYS_sendto      = 206
	SYS_recvfrom    = 207
	SYS_getsockname = 204
	SYS_setsockopt  = 208
)

// Clone flags (subset this kernel honours; §9 notes the partial honouring
// of CLONE_SETTLS/CLONE_CHILD_SETTID/CLONE_CHILD_CLEARTID and that
// CLONE_SIGHAND is ignored since sig_actions are always process-shared).
const (
	CLONE_VM             = 0x00000100
	CLONE_FS             = 0x00000200
	CLONE_FILES          = 0x00000400
	CLONE_SIGHAND        = 0x00000800
	CLONE_THREAD         = 0x00010000
	CLONE_SETTLS         = 0x00080000
	CLONE_PARENT_SETTID  = 0x00100000
	CLONE_CHILD_CLEARTID = 0x00200000
	CLONE_CHILD_SETTID   = 0x01000000

	// Observed flag combinations a musl fork() issues to clone(2).
	ForkFlagsA = 0x4111
	ForkFlagsB = 0x11
)

// mmap/mprotect protection and flag bits this kernel recognizes.
const (
	PROT_NONE  = 0x0
	PROT_READ  = 0x1
	PROT_WRITE = 0x2
	PROT_EXEC  = 0x4

	MAP_SHARED    = 0x01
	MAP_PRIVATE   = 0x02
	MAP_FIXED     = 0x10
	MAP_ANONYMOUS = 0x20
)

// openat(2) flag bits this kernel recognizes (generic Linux numbering,
// shared across architectures including riscv64).
const (
	O_RDONLY    = 0x0
	O_WRONLY    = 0x1
	O_RDWR      = 0x2
	O_CREAT     = 0x40
	O_EXCL      = 0x80
	O_TRUNC     = 0x200
	O_APPEND    = 0x400
	O_DIRECTORY = 0x10000
)

// ppoll(2) event bits this kernel's non-blocking poll recognizes.
const (
	POLLIN   = 0x001
	POLLOUT  = 0x004
	POLLNVAL = 0x020
)

// futex operations this kernel's trivial implementation recognizes.
const (
	FUTEX_WAIT = 0
	FUTEX_WAKE = 1
)

// sigprocmask "how" values.
const (
	SIG_BLOCK   = 0
	SIG_UNBLOCK = 1
	SIG_SETMASK = 2
)

// Auxv types needed by musl's startup code.
const (
	AT_NULL   = 0
	AT_PHDR   = 3
	AT_PHENT  = 4
	AT_PHNUM  = 5
	AT_PAGESZ = 6
	AT_ENTRY  = 9
	AT_RANDOM = 25
)
