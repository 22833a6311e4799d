// Package fd implements the per-process file-descriptor table (§4.9) and
// every polymorphic file-object variant §3/§9 name: regular file, pipe
// endpoints, stdio, /dev/zero, /dev/null, /proc synthetic files, and the
// in-memory socket FIFO. The dispatch-over-file-kinds design note (§9)
// calls for "a tagged variant... plus a minimal trait over {read, write,
// read_at, write_at, mmap, get_size, readable, writable}" — this core uses
// a Go interface instead of a tagged variant, the same choice biscuit made
// with its fdops.Fdops_i (referenced throughout fd/fd.go and
// vm/userbuf.go's Userio_i as the read/write contract, though the actual
// fdops source was not retrievable from the teacher).
package fd

import "rvkernel/defs"

// File is the capability set every fd variant implements. Not every
// variant supports every operation; unsupported ones return -ENOSYS or,
// where Linux defines a specific errno (ESPIPE for seeking a pipe), that
// one.
type File interface {
	Read(buf []byte) (int, defs.Err_t)
	Write(buf []byte) (int, defs.Err_t)
	ReadAt(off int64, buf []byte) (int, defs.Err_t)
	WriteAt(off int64, buf []byte) (int, defs.Err_t)
	GetSize() (int64, defs.Err_t)
	Readable() bool
	Writable() bool
	// Reopen returns a new File sharing this one's underlying state,
	// used by dup/dup3/fork (mirrors biscuit's Fd_t.Copyfd calling
	// Fops.Reopen()).
	Reopen() (File, defs.Err_t)
	Close() defs.Err_t
}

// Perm bits mirroring biscuit's FD_READ/FD_WRITE/FD_CLOEXEC.
const (
	FD_READ    = 0x1
	FD_WRITE   = 0x2
	FD_CLOEXEC = 0x4
)

// FD is one entry in a process's fd table: a File plus the per-descriptor
// permission/cloexec bits (biscuit's Fd_t).
type FD struct {
	Fops  File
	Perms int
}

// Copyfd duplicates fd, used by dup/dup3/fork's shallow fd-table copy.
func Copyfd(f *FD) (*FD, defs.Err_t) {
	nf, err := f.Fops.Reopen()
	if err != 0 {
		return nil, err
	}
	return &FD{Fops: nf, Perms: f.Perms}, 0
}
