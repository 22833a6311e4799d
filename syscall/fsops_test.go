package syscall

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/defs"
	"rvkernel/fd"
	"rvkernel/fs"
	"rvkernel/proc"
	"rvkernel/procmgr"
	"rvkernel/sched"
	"rvkernel/util"
)

func newTestDispatcherWithTree(tbl *procmgr.Table, tree fs.FileTree) *Dispatcher {
	return &Dispatcher{Procs: tbl, Sched: sched.New(5), Tree: tree}
}

func TestSysGetcwdWritesRoot(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	va := uintptr(0xEFFFFF00)

	ret, disp := d.sysGetcwd(task, va, 8)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, va, ret)

	buf := make([]byte, 2)
	_, err := task.Proc.AS.ReadBytes(va, buf)
	require.Zero(t, err)
	require.Equal(t, byte('/'), buf[0])
	require.Equal(t, byte(0), buf[1])
}

func TestSysGetcwdRejectsTooSmallBuffer(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	ret, disp := d.sysGetcwd(task, 0xEFFFFF00, 1)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, -int64(defs.ERANGE), ret)
}

const (
	testPathVA = 0xEFFFF000
	testBufVA  = 0xEFFFF800
)

func writePath(t *testing.T, task *proc.Task, path string) uintptr {
	t.Helper()
	_, err := task.Proc.AS.WriteBytes(testPathVA, append([]byte(path), 0))
	require.Zero(t, err)
	return testPathVA
}

func TestSysOpenatCreatesAndReturnsUsableFd(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/new.txt")

	fdno, disp := d.sysOpenat(task, pathVA, defs.O_CREAT|defs.O_RDWR)
	require.Equal(t, sched.Continue, disp)
	require.GreaterOrEqual(t, fdno, int64(3))

	_, err := task.Proc.AS.WriteBytes(testBufVA, []byte("hello"))
	require.Zero(t, err)
	n, disp := d.sysWrite(task, int(fdno), testBufVA, 5)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, 5, n)
}

func TestSysOpenatExclFailsIfExists(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	tree.Install("/a", []byte("x"))
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/a")

	ret, disp := d.sysOpenat(task, pathVA, defs.O_CREAT|defs.O_EXCL)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, -int64(defs.EEXIST), ret)
}

func TestSysOpenatMissingWithoutCreatFails(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcherWithTree(tbl, fs.NewMemTree())
	pathVA := writePath(t, task, "/nope")

	ret, disp := d.sysOpenat(task, pathVA, defs.O_RDONLY)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, -int64(defs.ENOENT), ret)
}

func TestSysOpenatDirectoryReturnsListableFd(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	tree.Install("/a", []byte("a"))
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/")

	fdno, disp := d.sysOpenat(task, pathVA, defs.O_DIRECTORY)
	require.Equal(t, sched.Continue, disp)
	require.GreaterOrEqual(t, fdno, int64(3))

	f := task.Proc.Fds.Get(int(fdno))
	require.NotNil(t, f)
	_, ok := f.Fops.(*fd.Dir)
	require.True(t, ok)
}

func TestSysMkdiratThenLookupIsDir(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/sub")

	ret, disp := d.sysMkdirat(task, pathVA)
	require.Equal(t, sched.Continue, disp)
	require.Zero(t, ret)

	ino, err := tree.Lookup("/sub")
	require.Zero(t, err)
	require.Equal(t, fs.KindDir, ino.Kind)
}

func TestSysUnlinkatRemovesFile(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	tree.Install("/a", []byte("a"))
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/a")

	ret, disp := d.sysUnlinkat(task, pathVA)
	require.Equal(t, sched.Continue, disp)
	require.Zero(t, ret)

	_, err := tree.Lookup("/a")
	require.EqualValues(t, -defs.ENOENT, err)
}

func TestSysStatfsWritesFixedResponse(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	tree.Install("/a", []byte("a"))
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/a")

	ret, disp := d.sysStatfs(task, pathVA, testBufVA)
	require.Equal(t, sched.Continue, disp)
	require.Zero(t, ret)

	buf := make([]byte, 16)
	_, err := task.Proc.AS.ReadBytes(testBufVA, buf)
	require.Zero(t, err)
	require.EqualValues(t, 0x4d44, util.Readn(buf, 8, 0))
}

func TestSysGetdents64ListsEntries(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	tree.Install("/a", []byte("a"))
	tree.Mkdir("/sub")
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/")

	fdno, disp := d.sysOpenat(task, pathVA, defs.O_DIRECTORY)
	require.Equal(t, sched.Continue, disp)

	n, disp := d.sysGetdents64(task, int(fdno), testBufVA, 4096)
	require.Equal(t, sched.Continue, disp)
	require.Greater(t, n, int64(0))

	buf := make([]byte, n)
	_, err := task.Proc.AS.ReadBytes(testBufVA, buf)
	require.Zero(t, err)
	require.Contains(t, string(buf), "a")
	require.Contains(t, string(buf), "sub")
}

func TestSysGetdents64OnNonDirFails(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	tree.Install("/a", []byte("a"))
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/a")

	fdno, disp := d.sysOpenat(task, pathVA, defs.O_RDONLY)
	require.Equal(t, sched.Continue, disp)

	ret, disp := d.sysGetdents64(task, int(fdno), testBufVA, 4096)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, -int64(defs.ENOTDIR), ret)
}

func TestSysReadlinkatAlwaysFails(t *testing.T) {
	d := &Dispatcher{}
	ret, disp := d.sysReadlinkat()
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, -int64(defs.EINVAL), ret)
}

func TestSysFstatatMatchesLookedUpFile(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	tree := fs.NewMemTree()
	tree.Install("/a", []byte("hello"))
	d := newTestDispatcherWithTree(tbl, tree)
	pathVA := writePath(t, task, "/a")

	ret, disp := d.sysFstatat(task, pathVA, testBufVA)
	require.Equal(t, sched.Continue, disp)
	require.Zero(t, ret)

	buf := make([]byte, 128)
	_, err := task.Proc.AS.ReadBytes(testBufVA, buf)
	require.Zero(t, err)
	require.EqualValues(t, 5, util.Readn(buf, 8, 48))
}

func TestSysFstatatMissingReturnsEnoent(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcherWithTree(tbl, fs.NewMemTree())
	pathVA := writePath(t, task, "/nope")

	ret, disp := d.sysFstatat(task, pathVA, testBufVA)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, -int64(defs.ENOENT), ret)
}

func TestSysUtimensatIsANoop(t *testing.T) {
	d := &Dispatcher{}
	ret, disp := d.sysUtimensat()
	require.Equal(t, sched.Continue, disp)
	require.Zero(t, ret)
}

func TestSysSendfileCopiesBytesBetweenFds(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	src := fd.NewRegular([]byte("copy me"))
	dst := fd.NewRegular(nil)
	srcFd := task.Proc.Fds.Alloc(&fd.FD{Fops: src, Perms: fd.FD_READ})
	dstFd := task.Proc.Fds.Alloc(&fd.FD{Fops: dst, Perms: fd.FD_WRITE})

	n, disp := d.sysSendfile(task, dstFd, srcFd, 7)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, 7, n)

	got := make([]byte, 7)
	nn, err := dst.ReadAt(0, got)
	require.Zero(t, err)
	require.Equal(t, 7, nn)
	require.Equal(t, "copy me", string(got))
}

func TestSysPpollReportsReadinessAndNval(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	r := fd.NewRegular([]byte("x"))
	goodFd := task.Proc.Fds.Alloc(&fd.FD{Fops: r, Perms: fd.FD_READ})

	var buf [16]byte
	util.Writen(buf[0:8], 4, 0, goodFd)
	util.Writen(buf[0:8], 2, 4, defs.POLLIN)
	util.Writen(buf[8:16], 4, 0, 99999)
	util.Writen(buf[8:16], 2, 4, defs.POLLIN)
	_, err := task.Proc.AS.WriteBytes(testBufVA, buf[:])
	require.Zero(t, err)

	ready, disp := d.sysPpoll(task, testBufVA, 2)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, 2, ready)

	var out [16]byte
	_, err = task.Proc.AS.ReadBytes(testBufVA, out[:])
	require.Zero(t, err)
	require.EqualValues(t, defs.POLLIN, util.Readn(out[:8], 2, 6))
	require.EqualValues(t, defs.POLLNVAL, util.Readn(out[8:16], 2, 6))
}
