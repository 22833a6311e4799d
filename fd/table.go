package fd

import (
	"sync"

	"rvkernel/defs"
)

// Table is the sparse integer->object map of §4.9: alloc() returns the
// smallest unused index >= 0; 0,1,2 are preinstalled as stdin/stdout/
// stderr; FdNull (AT_FDCWD) denotes "relative to cwd" for the *at family.
type Table struct {
	mu   sync.Mutex
	fds  map[int]*FD
	next int
}

const FdNull = -100 // AT_FDCWD

// NewTable creates an empty table with stdin/stdout/stderr installed.
func NewTable(stdin, stdout, stderr File) *Table {
	t := &Table{fds: make(map[int]*FD)}
	t.fds[0] = &FD{Fops: stdin, Perms: FD_READ}
	t.fds[1] = &FD{Fops: stdout, Perms: FD_WRITE}
	t.fds[2] = &FD{Fops: stderr, Perms: FD_WRITE}
	t.next = 3
	return t
}

// Alloc installs f at the smallest unused non-negative index and returns
// that index.
func (t *Table) Alloc(f *FD) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; ; i++ {
		if _, used := t.fds[i]; !used {
			t.fds[i] = f
			if i >= t.next {
				t.next = i + 1
			}
			return i
		}
	}
}

// AllocAt installs f at exactly idx, replacing (and closing) whatever was
// there, used by dup2/dup3.
func (t *Table) AllocAt(idx int, f *FD) defs.Err_t {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.fds[idx]; ok {
		old.Fops.Close()
	}
	t.fds[idx] = f
	return 0
}

// Get returns the FD at idx, or nil if unused.
func (t *Table) Get(idx int) *FD {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fds[idx]
}

// Close removes idx from the table and closes the underlying File.
func (t *Table) Close(idx int) defs.Err_t {
	t.mu.Lock()
	f, ok := t.fds[idx]
	if ok {
		delete(t.fds, idx)
	}
	t.mu.Unlock()
	if !ok {
		return -defs.EBADF
	}
	return f.Fops.Close()
}

// ForkCopy returns a shallow copy of the table (objects shared by
// reference, matching §4.9: "Inherited by fork as a shallow copy (objects
// shared by reference count)" — Go's GC makes the reference-counting half
// of that sentence automatic).
func (t *Table) ForkCopy() *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	nt := &Table{fds: make(map[int]*FD, len(t.fds)), next: t.next}
	for i, f := range t.fds {
		nt.fds[i] = &FD{Fops: f.Fops, Perms: f.Perms}
	}
	return nt
}

// CloseCloexec drops every fd marked FD_CLOEXEC, called on execve (§4.7).
func (t *Table) CloseCloexec() {
	t.mu.Lock()
	var toClose []int
	for i, f := range t.fds {
		if f.Perms&FD_CLOEXEC != 0 {
			toClose = append(toClose, i)
		}
	}
	t.mu.Unlock()
	for _, i := range toClose {
		t.Close(i)
	}
}
