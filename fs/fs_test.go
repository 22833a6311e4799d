package fs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/defs"
)

func TestMemTreeInstallAndLookup(t *testing.T) {
	tree := NewMemTree()
	tree.Install("/busybox", []byte("\x7fELF"))

	ino, err := tree.Lookup("/busybox")
	require.Zero(t, err)
	require.Equal(t, KindFile, ino.Kind)
	require.EqualValues(t, 4, ino.Size)
}

func TestMemTreeLookupMissingReturnsEnoent(t *testing.T) {
	tree := NewMemTree()
	_, err := tree.Lookup("/nope")
	require.EqualValues(t, -defs.ENOENT, err)
}

func TestMemTreeReadFileReturnsBytes(t *testing.T) {
	tree := NewMemTree()
	tree.Install("/init", []byte("hello"))

	data, err := tree.ReadFile("/init")
	require.Zero(t, err)
	require.Equal(t, "hello", string(data))
}

func TestMemTreeRootLookupReturnsDir(t *testing.T) {
	tree := NewMemTree()
	ino, err := tree.Lookup("/")
	require.Zero(t, err)
	require.Equal(t, KindDir, ino.Kind)
}

func TestMemTreeReadFileOnDirFails(t *testing.T) {
	tree := NewMemTree()
	_, err := tree.ReadFile("/")
	require.EqualValues(t, -defs.EISDIR, err)
}

func TestMemTreeCreateThenLookup(t *testing.T) {
	tree := NewMemTree()
	ino, err := tree.Create("/new.txt")
	require.Zero(t, err)
	require.Equal(t, KindFile, ino.Kind)

	_, err = tree.Create("/new.txt")
	require.EqualValues(t, -defs.EEXIST, err)
}

func TestMemTreeMkdirThenReadDir(t *testing.T) {
	tree := NewMemTree()
	tree.Install("/a", []byte("a"))
	_, err := tree.Mkdir("/sub")
	require.Zero(t, err)

	entries, err := tree.ReadDir("/")
	require.Zero(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a", entries[0].Name)
	require.Equal(t, "sub", entries[1].Name)
	require.Equal(t, KindDir, entries[1].Kind)
}

func TestMemTreeReadDirOnFileFails(t *testing.T) {
	tree := NewMemTree()
	tree.Install("/a", []byte("a"))
	_, err := tree.ReadDir("/a")
	require.EqualValues(t, -defs.ENOTDIR, err)
}

func TestMemTreeUnlinkRemovesEntry(t *testing.T) {
	tree := NewMemTree()
	tree.Install("/a", []byte("a"))
	require.Zero(t, tree.Unlink("/a"))
	_, err := tree.Lookup("/a")
	require.EqualValues(t, -defs.ENOENT, err)
	require.EqualValues(t, -defs.ENOENT, tree.Unlink("/a"))
}
