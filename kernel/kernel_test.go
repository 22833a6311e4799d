package kernel

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/defs"
	"rvkernel/fs"
	"rvkernel/mem"
)

// buildMiniELF mirrors elf_test.go's helper: one PT_LOAD segment holding
// segData, mapped at vaddr, entry point == vaddr.
func buildMiniELF(entry uint64, segData []byte, vaddr uint64) []byte {
	const ehSize, phEntSz = 64, 56
	le := binary.LittleEndian
	phOff := uint64(ehSize)
	buf := make([]byte, ehSize+phEntSz+len(segData))

	buf[0], buf[1], buf[2], buf[3] = 0x7f, 'E', 'L', 'F'
	le.PutUint64(buf[24:32], entry)
	le.PutUint64(buf[32:40], phOff)
	le.PutUint16(buf[54:56], phEntSz)
	le.PutUint16(buf[56:58], 1)

	ph := buf[phOff : phOff+phEntSz]
	le.PutUint32(ph[0:4], 1) // PT_LOAD
	le.PutUint32(ph[4:8], 0x7)
	le.PutUint64(ph[8:16], phOff+phEntSz)
	le.PutUint64(ph[16:24], vaddr)
	le.PutUint64(ph[32:40], uint64(len(segData)))
	le.PutUint64(ph[40:48], uint64(len(segData)))

	copy(buf[phOff+phEntSz:], segData)
	return buf
}

func newTestKernel(t *testing.T) (*Kernel, *fs.MemTree) {
	t.Helper()
	tree := fs.NewMemTree()
	k := New(0, 4096, mem.NewFakePhysMem(), tree)
	return k, tree
}

func TestNewKernelStartsWithEmptySchedulerAndQueue(t *testing.T) {
	k, _ := newTestKernel(t)
	require.True(t, k.Sched.Empty())
	require.True(t, k.Queue.Empty())
}

func TestSpawnInitFailsWithoutATree(t *testing.T) {
	k := New(0, 4096, mem.NewFakePhysMem(), nil)
	_, err := k.SpawnInit([]string{"/init"})
	require.EqualValues(t, -defs.ENOENT, err)
}

func TestSpawnInitLoadsELFAndSchedulesTask(t *testing.T) {
	k, tree := newTestKernel(t)
	data := buildMiniELF(0x10000, []byte("hi"), 0x10000)
	tree.Install("/init", data)

	task, err := k.SpawnInit([]string{"/init"})
	require.Zero(t, err)
	require.NotNil(t, task)
	require.EqualValues(t, 0x10000, task.Ctx.Sepc)
	require.False(t, k.Sched.Empty())
}

func TestRunOnceSpawnsBootJobWhenReadyQueueEmpty(t *testing.T) {
	k, tree := newTestKernel(t)
	data := buildMiniELF(0x10000, []byte("hi"), 0x10000)
	tree.Install("/init", data)
	k.Queue.Push("/init")

	require.True(t, k.Sched.Empty())
	more := k.RunOnce(0, 0)
	require.True(t, more)
	require.False(t, k.Sched.Empty())
}

func TestRunOnceReportsShutdownWhenEverythingIsEmpty(t *testing.T) {
	k, _ := newTestKernel(t)
	require.False(t, k.RunOnce(0, 0))
}

func TestRunOnceDispatchesGetpidSyscall(t *testing.T) {
	k, tree := newTestKernel(t)
	data := buildMiniELF(0x10000, []byte("hi"), 0x10000)
	tree.Install("/init", data)
	_, err := k.SpawnInit([]string{"/init"})
	require.Zero(t, err)

	task := k.Sched.Next()
	task.Ctx.Regs[17] = defs.SYS_getpid // a7
	const scauseUserEnvCall = 8
	more := k.RunOnce(scauseUserEnvCall, 0)
	require.True(t, more)
	require.EqualValues(t, task.Proc.Pid, int64(task.Ctx.Regs[10])) // a0
}
