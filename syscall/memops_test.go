package syscall

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/config"
	"rvkernel/defs"
	"rvkernel/sched"
)

func TestSysBrkGrowsOnePage(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	base, disp := d.sysBrk(task, 0)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, config.HeapBase, base)

	old, disp := d.sysBrk(task, uintptr(base)+3*config.PGSIZE)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, uint64(base), uint64(old))

	grown, disp := d.sysBrk(task, 0)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, uint64(base)+config.PGSIZE, uint64(grown))
}

func TestSysMmapAnonymousReturnsUsableRegion(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	va, disp := d.sysMmap(task, 0, config.PGSIZE, defs.PROT_READ|defs.PROT_WRITE, defs.MAP_ANONYMOUS)
	require.Equal(t, sched.Continue, disp)
	require.NotZero(t, va)

	_, err := task.Proc.AS.WriteBytes(uintptr(va), []byte("x"))
	require.Zero(t, err)
}

func TestSysMmapRejectsFileBacked(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	ret, disp := d.sysMmap(task, 0, config.PGSIZE, defs.PROT_READ, 0)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, -int64(defs.ENOSYS), ret)
}

// TestSysMunmapFaultsAfterUnmap exercises §8 scenario 3 end to end: an
// anonymous mapping is written, unmapped, and a subsequent read through the
// same address space must no longer resolve.
func TestSysMunmapFaultsAfterUnmap(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	va, disp := d.sysMmap(task, 0, 2*config.PGSIZE, defs.PROT_READ|defs.PROT_WRITE, defs.MAP_ANONYMOUS)
	require.Equal(t, sched.Continue, disp)
	_, err := task.Proc.AS.WriteBytes(uintptr(va), []byte{0x11, 0x22})
	require.Zero(t, err)

	ret, disp := d.sysMunmap(task, uintptr(va), 2*config.PGSIZE)
	require.Equal(t, sched.Continue, disp)
	require.Zero(t, ret)

	buf := make([]byte, 2)
	_, err = task.Proc.AS.ReadBytes(uintptr(va), buf)
	require.NotZero(t, err)
}

func TestSysMunmapOfUnmappedRangeSucceeds(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	ret, disp := d.sysMunmap(task, 0x123000, config.PGSIZE)
	require.Equal(t, sched.Continue, disp)
	require.Zero(t, ret)
}
