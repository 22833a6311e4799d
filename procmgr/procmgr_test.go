package procmgr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/defs"
	"rvkernel/fd"
	"rvkernel/proc"
)

func mkProc(t *Table, ppid defs.Pid_t) *proc.Process {
	p := proc.New(t.NextPid(), ppid)
	p.Fds = fd.NewTable(fd.DevNull{}, fd.DevNull{}, fd.DevNull{})
	t.Add(p)
	return p
}

func TestNextPidStartsAt1000(t *testing.T) {
	tbl := New()
	require.EqualValues(t, 1000, tbl.NextPid())
	require.EqualValues(t, 1001, tbl.NextPid())
}

func TestWait4ReapsExitedChild(t *testing.T) {
	tbl := New()
	parent := mkProc(tbl, 1)
	child := mkProc(tbl, parent.Pid)
	child.Exit(7)

	pid, status, ok := tbl.Wait4(parent, -1)
	require.True(t, ok)
	require.Equal(t, child.Pid, pid)
	require.EqualValues(t, 7<<8, status)
	require.Nil(t, tbl.Get(child.Pid))
}

func TestWait4ReturnsFalseWhenNoExitedChild(t *testing.T) {
	tbl := New()
	parent := mkProc(tbl, 1)
	_ = mkProc(tbl, parent.Pid)

	_, _, ok := tbl.Wait4(parent, -1)
	require.False(t, ok)
}

func TestReparentMovesChildrenToInit(t *testing.T) {
	tbl := New()
	orphanParent := mkProc(tbl, 1)
	child := mkProc(tbl, orphanParent.Pid)

	tbl.Reparent(orphanParent.Pid)
	require.EqualValues(t, 1, tbl.Get(child.Pid).Ppid)
}
