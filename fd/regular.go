package fd

import (
	"sync"

	"rvkernel/defs"
)

// inode is the owned in-memory page buffer standing in for a FAT32 file's
// content (§1: the FAT32 reader itself is an external collaborator this
// core never implements). Writes mutate the buffer but are never flushed
// to a backing block device — the open question in §9 on write-without-
// writeback is resolved by simply not having a writeback path at all.
type inode struct {
	mu   sync.Mutex
	data []byte
}

// Regular is a seekable file object over an inode, giving every open fd
// on the same file its own offset (the Unix open-file-description model).
type Regular struct {
	ino    *inode
	mu     sync.Mutex
	offset int64
}

// NewRegular creates a fresh in-memory regular file, empty or preloaded
// (e.g. by an ELF loader staging a binary's data before exec).
func NewRegular(initial []byte) *Regular {
	buf := make([]byte, len(initial))
	copy(buf, initial)
	return &Regular{ino: &inode{data: buf}}
}

func (r *Regular) Read(p []byte) (int, defs.Err_t) {
	r.mu.Lock()
	off := r.offset
	r.mu.Unlock()
	n, err := r.ReadAt(off, p)
	if err == 0 {
		r.mu.Lock()
		r.offset += int64(n)
		r.mu.Unlock()
	}
	return n, err
}

func (r *Regular) Write(p []byte) (int, defs.Err_t) {
	r.mu.Lock()
	off := r.offset
	r.mu.Unlock()
	n, err := r.WriteAt(off, p)
	if err == 0 {
		r.mu.Lock()
		r.offset += int64(n)
		r.mu.Unlock()
	}
	return n, err
}

func (r *Regular) ReadAt(off int64, p []byte) (int, defs.Err_t) {
	r.ino.mu.Lock()
	defer r.ino.mu.Unlock()
	if off < 0 || off >= int64(len(r.ino.data)) {
		return 0, 0
	}
	n := copy(p, r.ino.data[off:])
	return n, 0
}

func (r *Regular) WriteAt(off int64, p []byte) (int, defs.Err_t) {
	if off < 0 {
		return 0, -defs.EINVAL
	}
	r.ino.mu.Lock()
	defer r.ino.mu.Unlock()
	end := off + int64(len(p))
	if end > int64(len(r.ino.data)) {
		grown := make([]byte, end)
		copy(grown, r.ino.data)
		r.ino.data = grown
	}
	copy(r.ino.data[off:end], p)
	return len(p), 0
}

func (r *Regular) GetSize() (int64, defs.Err_t) {
	r.ino.mu.Lock()
	defer r.ino.mu.Unlock()
	return int64(len(r.ino.data)), 0
}

func (r *Regular) Readable() bool { return true }
func (r *Regular) Writable() bool { return true }

// Reopen returns a new Regular view over the same inode with its own
// offset, reset to 0 (a fresh open-file-description, as dup(2) in POSIX
// actually shares the offset — callers needing shared offset should clone
// the struct directly rather than going through Reopen).
func (r *Regular) Reopen() (File, defs.Err_t) {
	return &Regular{ino: r.ino}, 0
}

func (r *Regular) Close() defs.Err_t { return 0 }

// Seek repositions the offset per whence (0=set, 1=cur, 2=end), used by
// the lseek syscall handler.
func (r *Regular) Seek(off int64, whence int) (int64, defs.Err_t) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch whence {
	case 0:
		r.offset = off
	case 1:
		r.offset += off
	case 2:
		sz, _ := r.GetSize()
		r.offset = sz + off
	default:
		return 0, -defs.EINVAL
	}
	if r.offset < 0 {
		r.offset = 0
		return 0, -defs.EINVAL
	}
	return r.offset, 0
}
