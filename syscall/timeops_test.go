package syscall

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/sched"
)

func TestSysNanosleepParksThenCompletesAfterWakeTick(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	reqVA := uintptr(0xEFFFFF00)
	// 0 seconds, 0ns -> clamped to a 1-tick sleep.
	_, werr := task.Proc.AS.WriteBytes(reqVA, make([]byte, 16))
	require.Zero(t, werr)
	task.Ctx.Sepc = 0x2000

	_, disp := d.sysNanosleep(task, &task.Ctx, reqVA)
	require.Equal(t, sched.ChangeTask, disp)
	require.NotZero(t, task.WakeTick)
	require.EqualValues(t, 0x1FFC, task.Ctx.Sepc)

	for i := 0; i < 5; i++ {
		d.Sched.Tick()
	}
	_, disp = d.sysNanosleep(task, &task.Ctx, reqVA)
	require.Equal(t, sched.Continue, disp)
	require.Zero(t, task.WakeTick)
}

func TestSysClockGettimeWritesSecondsAndNanos(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	va := uintptr(0xEFFFFE00)

	for i := 0; i < 10; i++ {
		d.Sched.Tick()
	}
	_, disp := d.sysClockGettime(task, va)
	require.Equal(t, sched.Continue, disp)

	sec, err := task.Proc.AS.ReadU64(va)
	require.Zero(t, err)
	require.Zero(t, sec)
	nsec, err := task.Proc.AS.ReadU64(va + 8)
	require.Zero(t, err)
	require.EqualValues(t, 100_000_000, nsec)
}

func TestSysTimesReturnsTickCount(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	d.Sched.Tick()

	ticks, disp := d.sysTimes(task, 0)
	require.Equal(t, sched.Continue, disp)
	require.EqualValues(t, 1, ticks)
}

func TestSysGetrusageWritesRusageBuffer(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	va := uintptr(0xEFFFFD00)

	_, disp := d.sysGetrusage(task, 0, va)
	require.Equal(t, sched.Continue, disp)
}
