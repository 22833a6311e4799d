package proc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/defs"
	"rvkernel/fd"
)

func TestNewTaskAttachesAndCounts(t *testing.T) {
	p := New(1000, 1)
	p.Fds = fd.NewTable(fd.DevNull{}, fd.DevNull{}, fd.DevNull{})
	task := p.NewTask(1000)
	require.Equal(t, 1, p.TaskCount())
	require.Same(t, p, task.Proc)

	p.RemoveTask(task)
	require.Equal(t, 0, p.TaskCount())
}

func TestForkCopiesFdsAndSigNotAS(t *testing.T) {
	p := New(1000, 1)
	p.Fds = fd.NewTable(fd.DevNull{}, fd.DevNull{}, fd.DevNull{})

	child := p.Fork(1001, nil)
	require.Equal(t, defs.Pid_t(1001), child.Pid)
	require.Equal(t, defs.Pid_t(1000), child.Ppid)
	require.NotSame(t, p.Fds, child.Fds)
}

func TestExitSetsCodeAndPackedStatus(t *testing.T) {
	p := New(1000, 1)
	p.Exit(7)
	require.True(t, p.Exited)
	require.EqualValues(t, 7<<8, p.PackedStatus())
}
