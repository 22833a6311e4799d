// Package trap decodes scause and dispatches to the right handler
// (§4.5's "Dispatch table by cause"), grounded on original_source/kernel/
// src/interrupt/mod.rs's cause-match structure and on this kernel's own
// hart package for the CSR bit layout.
package trap

import (
	"rvkernel/addrspace"
	"rvkernel/config"
	"rvkernel/hart"
	"rvkernel/klog"
	"rvkernel/sched"
	"rvkernel/trapframe"
)

// Handlers bundles the callbacks trap dispatch needs from the rest of
// the kernel, so this package stays free of an import cycle with proc/
// sched/syscall.
type Handlers struct {
	// Syscall dispatches a7-selected syscalls; returns the value for a0
	// and a disposition.
	Syscall func(ctx *trapframe.Context) (int64, sched.Disposition)
	// Tick runs on every supervisor-timer interrupt; returns true if this
	// tick should preempt the current task.
	Tick func() bool
}

// Dispatch decodes scause/stval for one trap and returns the
// disposition the scheduler should act on. ctx is the interrupted
// task's saved register file; as is that task's address space (used to
// resolve stack-growth faults).
func Dispatch(ctx *trapframe.Context, scause, stval uint64, as *addrspace.AddressSpace, h Handlers) sched.Disposition {
	if scause&hart.CauseInterruptBit != 0 {
		cause := scause &^ hart.CauseInterruptBit
		if cause == hart.IntSupervisorTimer {
			if h.Tick != nil && h.Tick() {
				return sched.ChangeTask
			}
			return sched.Continue
		}
		return sched.Continue
	}

	switch scause {
	case hart.ExcBreakpoint:
		ctx.AdvancePC(2)
		return sched.Continue

	case hart.ExcStorePageFault, hart.ExcLoadPageFault:
		va := uintptr(stval)
		if va >= config.StackLoBound && va < config.StackHiBound {
			if as != nil && as.EnsureStackPage(va) == 0 {
				return sched.Continue
			}
		}
		klog.Printf("trap: unhandled page fault at %#x (scause=%#x)\n", stval, scause)
		return sched.KillCurrentTask

	case hart.ExcUserEnvCall:
		ctx.AdvancePC(4)
		if h.Syscall == nil {
			return sched.KillCurrentTask
		}
		ret, disp := h.Syscall(ctx)
		if disp == sched.Continue {
			ctx.SetReturn(ret)
		}
		return disp

	case hart.ExcIllegalInstr, hart.ExcStoreMisaligned, hart.ExcInstrMisaligned:
		klog.Printf("trap: fatal exception scause=%#x sepc=%#x\n", scause, ctx.Sepc)
		return sched.KillCurrentTask

	default:
		klog.Printf("trap: unknown scause=%#x sepc=%#x stval=%#x\n", scause, ctx.Sepc, stval)
		return sched.KillCurrentTask
	}
}
