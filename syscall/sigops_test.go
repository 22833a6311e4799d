package syscall

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/sched"
)

func TestSysSigactionCopiesInAndOut(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	newVA := uintptr(0xEFFFFF00)
	oldVA := uintptr(0xEFFFFE00)

	var buf [32]byte
	putI64(buf[0:8], 0x4000)  // handler
	putI64(buf[8:16], 0)      // flags
	putI64(buf[16:24], 0x4100) // restorer
	putI64(buf[24:32], 0)     // mask
	_, err := task.Proc.AS.WriteBytes(newVA, buf[:])
	require.Zero(t, err)

	_, disp := d.sysSigaction(task, 10, newVA, oldVA)
	require.Equal(t, sched.Continue, disp)

	act := task.Proc.Sig.Get(10)
	require.EqualValues(t, 0x4000, act.Handler)
	require.EqualValues(t, 0x4100, act.Restorer)

	oldHandler, err := task.Proc.AS.ReadU64(oldVA)
	require.Zero(t, err)
	require.Zero(t, oldHandler) // no prior action installed
}

func TestSysSigprocmaskBlockThenReadBack(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)
	setVA := uintptr(0xEFFFFD00)
	oldVA := uintptr(0xEFFFFC00)

	require.Zero(t, task.Proc.AS.WriteU64(setVA, 1<<9)) // block signal 10

	_, disp := d.sysSigprocmask(task, 0 /* SIG_BLOCK */, setVA, 0)
	require.Equal(t, sched.Continue, disp)
	require.True(t, task.SigMask.Blocked(10))

	_, disp = d.sysSigprocmask(task, 0, 0, oldVA)
	require.Equal(t, sched.Continue, disp)
	got, err := task.Proc.AS.ReadU64(oldVA)
	require.Zero(t, err)
	require.EqualValues(t, 1<<9, got)
}

func TestSysSigreturnRestoresSavedContext(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	original := task.Ctx
	original.Sepc = 0x8000
	task.Proc.Scratch.Saved = original
	task.Proc.Scratch.Busy = true

	task.Ctx.Sepc = 0x9000 // inside the handler
	_, disp := d.sysSigreturn(task, &task.Ctx)
	require.Equal(t, sched.SigReturn, disp)
	require.EqualValues(t, 0x8000, task.Ctx.Sepc)
	require.False(t, task.Proc.Scratch.Busy)
}

func TestSysSigreturnFailsWithoutPendingDelivery(t *testing.T) {
	tbl, _, task := newTestProcess(t)
	d := newTestDispatcher(tbl)

	_, disp := d.sysSigreturn(task, &task.Ctx)
	require.Equal(t, sched.Continue, disp)
}
