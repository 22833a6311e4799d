// Package fs defines the FAT32 tree contract a real reader would
// populate (§1/§9: "the FAT layer as opaque... the fs package exposes
// only the Inode/FileTree contract"). No FAT32 parser lives here — that
// is the external collaborator named throughout SPEC_FULL.md — but an
// in-memory FileTree is provided so execve and the boot path have
// something concrete to load programs from, grounded on biscuit's
// Superblock_t field-accessor style (fs/super.go) generalized from an
// on-disk layout to an in-memory map.
package fs

import (
	"sort"
	"sync"

	"rvkernel/defs"
)

// Kind enumerates what an Inode names, per §3's inode shape.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindVirt
	KindDevice
	KindPipe
)

// Inode mirrors §3's "Inode (FAT tree node)" shape: filename, kind,
// first_cluster, size, parent (weak), children, nlink, timestamps. This
// core never walks a real cluster chain, so FirstCluster is kept only
// for ABI-shape fidelity; file content for the in-memory tree lives in
// Data directly, mirroring the spec's "inode transparently shadows the
// backing cluster chain with an owned page buffer" note.
type Inode struct {
	Name         string
	Kind         Kind
	FirstCluster uint32
	Size         int64
	Nlink        int
	Data         []byte

	parent   *Inode
	children map[string]*Inode
}

// FileTree is the contract a FAT32 reader would populate: path lookup,
// raw byte access, and the handful of mutating operations §4.12 lists
// (mkdirat, unlinkat, openat's O_CREAT, getdents64's directory listing).
// No implementation of this interface backed by an actual block device
// exists in this core (§1's Non-goal); MemTree below exists purely to
// exercise it in tests and to give the boot path and the filesystem
// syscall group a root to mount.
type FileTree interface {
	Lookup(path string) (*Inode, defs.Err_t)
	ReadFile(path string) ([]byte, defs.Err_t)
	// Create installs an empty regular file at path, or returns EEXIST if
	// one is already there (openat's O_CREAT|O_EXCL path).
	Create(path string) (*Inode, defs.Err_t)
	// Mkdir installs an empty directory at path.
	Mkdir(path string) (*Inode, defs.Err_t)
	// Unlink removes whatever inode lives at path.
	Unlink(path string) defs.Err_t
	// ReadDir lists the direct children of the directory at path.
	ReadDir(path string) ([]*Inode, defs.Err_t)
}

// MemTree is an in-memory FileTree, the "warm-cache" shadow §3 describes
// taken to its logical limit: every file lives fully in a byte slice from
// the start, since this core has no block device backing it at all.
type MemTree struct {
	mu   sync.Mutex
	root *Inode
}

// NewMemTree returns an empty tree with just a root directory.
func NewMemTree() *MemTree {
	return &MemTree{root: &Inode{Name: "/", Kind: KindDir, Nlink: 1, children: make(map[string]*Inode)}}
}

// Install places data at path (creating no intermediate directories;
// callers are expected to pass flat paths like "/busybox"), mirroring
// how a boot-time "warm cache" step would stage a binary before exec.
func (m *MemTree) Install(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := trimSlash(path)
	ino := &Inode{Name: name, Kind: KindFile, Size: int64(len(data)), Nlink: 1, Data: data, parent: m.root}
	m.root.children[name] = ino
}

func (m *MemTree) Lookup(path string) (*Inode, defs.Err_t) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := trimSlash(path)
	if name == "" {
		return m.root, 0
	}
	ino, ok := m.root.children[name]
	if !ok {
		return nil, -defs.ENOENT
	}
	return ino, 0
}

func (m *MemTree) ReadFile(path string) ([]byte, defs.Err_t) {
	ino, err := m.Lookup(path)
	if err != 0 {
		return nil, err
	}
	if ino.Kind != KindFile {
		return nil, -defs.EISDIR
	}
	return ino.Data, 0
}

// Create installs an empty regular file at path, per FileTree's O_CREAT
// contract. Like Install, only flat paths under the root are supported.
func (m *MemTree) Create(path string) (*Inode, defs.Err_t) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := trimSlash(path)
	if name == "" {
		return nil, -defs.EISDIR
	}
	if _, exists := m.root.children[name]; exists {
		return nil, -defs.EEXIST
	}
	ino := &Inode{Name: name, Kind: KindFile, Nlink: 1, parent: m.root}
	m.root.children[name] = ino
	return ino, 0
}

// Mkdir installs an empty directory at path.
func (m *MemTree) Mkdir(path string) (*Inode, defs.Err_t) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := trimSlash(path)
	if name == "" {
		return nil, -defs.EEXIST
	}
	if _, exists := m.root.children[name]; exists {
		return nil, -defs.EEXIST
	}
	ino := &Inode{Name: name, Kind: KindDir, Nlink: 1, parent: m.root, children: make(map[string]*Inode)}
	m.root.children[name] = ino
	return ino, 0
}

// Unlink removes whatever inode lives at path, regardless of kind — this
// in-memory tree has no notion of "directory not empty" bookkeeping to
// enforce the POSIX rmdir-vs-unlink distinction, so both collapse to one
// operation here.
func (m *MemTree) Unlink(path string) defs.Err_t {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := trimSlash(path)
	if name == "" {
		return -defs.EBUSY
	}
	if _, exists := m.root.children[name]; !exists {
		return -defs.ENOENT
	}
	delete(m.root.children, name)
	return 0
}

// ReadDir lists path's direct children in name order (sorted for
// deterministic getdents64 output; the in-memory map itself has none).
func (m *MemTree) ReadDir(path string) ([]*Inode, defs.Err_t) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := m.root
	if name := trimSlash(path); name != "" {
		child, ok := m.root.children[name]
		if !ok {
			return nil, -defs.ENOENT
		}
		if child.Kind != KindDir {
			return nil, -defs.ENOTDIR
		}
		dir = child
	}
	out := make([]*Inode, 0, len(dir.children))
	for _, c := range dir.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, 0
}

func trimSlash(path string) string {
	for len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return path
}
