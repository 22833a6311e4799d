package fd

import "rvkernel/defs"

// Linux dirent d_type values this kernel's getdents64 handler emits.
const (
	DT_UNKNOWN = 0
	DT_REG     = 8
	DT_DIR     = 4
)

// DirEntry is one getdents64(2) entry (§4.12): a name and a d_type bit,
// enough for musl's readdir to tell files from directories without a
// separate fstatat on every entry.
type DirEntry struct {
	Name string
	Type uint8
}

// Dir is the file object openat(O_DIRECTORY) returns, snapshotting its
// children at open time (this core's in-memory tree has no concurrent-
// mutation-during-readdir hazard worth tracking beyond that). getdents64
// reads it sequentially through Next rather than through Read, since the
// wire format getdents64 produces is built by the syscall handler, not
// this type.
type Dir struct {
	entries []DirEntry
	offset  int
}

// NewDir wraps a directory listing as an open fd.
func NewDir(entries []DirEntry) *Dir { return &Dir{entries: entries} }

// Next returns the next unread entry and advances the cursor, or ok=false
// once every entry has been consumed.
func (d *Dir) Next() (DirEntry, bool) {
	if d.offset >= len(d.entries) {
		return DirEntry{}, false
	}
	e := d.entries[d.offset]
	d.offset++
	return e, true
}

func (d *Dir) Read(p []byte) (int, defs.Err_t)              { return 0, -defs.EISDIR }
func (d *Dir) Write(p []byte) (int, defs.Err_t)             { return 0, -defs.EISDIR }
func (d *Dir) ReadAt(int64, []byte) (int, defs.Err_t)       { return 0, -defs.EISDIR }
func (d *Dir) WriteAt(int64, []byte) (int, defs.Err_t)      { return 0, -defs.EISDIR }
func (d *Dir) GetSize() (int64, defs.Err_t)                 { return int64(len(d.entries)), 0 }
func (d *Dir) Readable() bool                               { return true }
func (d *Dir) Writable() bool                               { return false }
func (d *Dir) Reopen() (File, defs.Err_t)                   { return &Dir{entries: d.entries}, 0 }
func (d *Dir) Close() defs.Err_t                             { return 0 }
