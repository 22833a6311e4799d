package syscall

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/defs"
	"rvkernel/sched"
)

func TestSysExitLastTaskExitsProcess(t *testing.T) {
	tbl, p, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	d.Sched.Add(task)

	_, disp := d.sysExit(task, 7)
	require.Equal(t, sched.ChangeTask, disp)
	require.True(t, p.Exited)
	require.EqualValues(t, 7, p.ExitCode)
}

func TestSysExitGroupKillsAllTasks(t *testing.T) {
	tbl, p, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	other := p.NewTask(tbl.NextTid())
	d.Sched.Add(task)
	d.Sched.Add(other)

	_, disp := d.sysExitGroup(task, 3)
	require.Equal(t, sched.ChangeTask, disp)
	require.True(t, p.Exited)
	require.Equal(t, 0, p.TaskCount())
}

func TestSysCloneForkCreatesChildProcess(t *testing.T) {
	tbl, p, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	ret, disp := d.sysClone(task, &task.Ctx, 0, 0, 0, 0, 0)
	require.Equal(t, sched.Continue, disp)
	childPid := defs.Pid_t(int32(ret))
	require.NotEqual(t, p.Pid, childPid)

	child := tbl.Get(childPid)
	require.NotNil(t, child)
	require.Equal(t, p.Pid, child.Ppid)
	require.NotSame(t, p.AS, child.AS)
}

func TestSysCloneThreadSharesProcess(t *testing.T) {
	tbl, p, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	ret, disp := d.sysClone(task, &task.Ctx, defs.CLONE_VM, 0x1000, 0, 0x2000, 0)
	require.Equal(t, sched.Continue, disp)
	require.Equal(t, 2, p.TaskCount())
	require.NotEqualValues(t, task.Tid, ret)
}

func TestSysWait4RewindsWhenNoExitedChild(t *testing.T) {
	tbl, p, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	_ = p.NewTask(tbl.NextTid())
	task.Ctx.Sepc = 0x1000

	_, disp := d.sysWait4(task, &task.Ctx, -1, 0)
	require.Equal(t, sched.ChangeTask, disp)
	require.EqualValues(t, 0xFFC, task.Ctx.Sepc)
}

func TestSysWait4ReapsExitedChild(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	ret, disp := d.sysClone(task, &task.Ctx, 0, 0, 0, 0, 0)
	require.Equal(t, sched.Continue, disp)
	childPid := defs.Pid_t(int32(ret))
	tbl.Get(childPid).Exit(5)

	pid, disp := d.sysWait4(task, &task.Ctx, -1, 0)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, childPid, pid)
}

func TestSysKillSigkillReapsTarget(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	d.Sched.Add(task)

	ret, disp := d.sysClone(task, &task.Ctx, 0, 0, 0, 0, 0)
	require.Equal(t, sched.Continue, disp)
	childPid := defs.Pid_t(int32(ret))
	d.Sched.Add(tbl.Get(childPid).Tasks[0])

	_, disp = d.sysKill(childPid, 9)
	require.Equal(t, sched.Continue, disp)
	require.True(t, tbl.Get(childPid).Exited)
}
