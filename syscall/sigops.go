package syscall

import (
	"rvkernel/config"
	"rvkernel/defs"
	"rvkernel/proc"
	"rvkernel/sched"
	"rvkernel/sigact"
	"rvkernel/trapframe"
)

// sigactionSize is the size of the musl/Linux rv64 struct sigaction: handler,
// flags, restorer, mask (8 bytes each, in that order).
const sigactionSize = 32

func readSigaction(p *proc.Process, va uintptr) (sigact.Action, defs.Err_t) {
	var a sigact.Action
	handler, err := p.AS.ReadU64(va)
	if err != 0 {
		return a, err
	}
	flags, err := p.AS.ReadU64(va + 8)
	if err != 0 {
		return a, err
	}
	restorer, err := p.AS.ReadU64(va + 16)
	if err != 0 {
		return a, err
	}
	mask, err := p.AS.ReadU64(va + 24)
	if err != 0 {
		return a, err
	}
	a.Handler, a.Flags, a.Restorer, a.Mask = handler, flags, restorer, sigact.Set(mask)
	return a, 0
}

func writeSigaction(p *proc.Process, va uintptr, a sigact.Action) defs.Err_t {
	var buf [sigactionSize]byte
	putI64(buf[0:8], int64(a.Handler))
	putI64(buf[8:16], int64(a.Flags))
	putI64(buf[16:24], int64(a.Restorer))
	putI64(buf[24:32], int64(a.Mask))
	_, err := p.AS.WriteBytes(va, buf[:])
	return err
}

// sysSigaction implements rt_sigaction(2) (§4.11): copies in the new
// action (if non-nil), copies out the old one (if requested).
func (d *Dispatcher) sysSigaction(task *proc.Task, signo int, newVA, oldVA uintptr) (int64, sched.Disposition) {
	p := task.Proc
	var newact *sigact.Action
	if newVA != 0 {
		a, err := readSigaction(p, newVA)
		if err != 0 {
			return int64(err), sched.Continue
		}
		newact = &a
	}
	var oldact sigact.Action
	var oldactPtr *sigact.Action
	if oldVA != 0 {
		oldactPtr = &oldact
	}
	if err := p.Sig.Sigaction(signo, newact, oldactPtr); err != 0 {
		return int64(err), sched.Continue
	}
	if oldVA != 0 {
		if err := writeSigaction(p, oldVA, oldact); err != 0 {
			return int64(err), sched.Continue
		}
	}
	return 0, sched.Continue
}

// sysSigprocmask implements rt_sigprocmask(2): edits task's blocked-signal
// mask per how, copying out the previous mask if requested.
func (d *Dispatcher) sysSigprocmask(task *proc.Task, how int, setVA, oldsetVA uintptr) (int64, sched.Disposition) {
	p := task.Proc
	var set *sigact.Set
	if setVA != 0 {
		raw, err := p.AS.ReadU64(setVA)
		if err != 0 {
			return int64(err), sched.Continue
		}
		s := sigact.Set(raw)
		set = &s
	}
	var oldset sigact.Set
	var oldsetPtr *sigact.Set
	if oldsetVA != 0 {
		oldsetPtr = &oldset
	}
	if err := task.SigMask.Sigprocmask(how, set, oldsetPtr); err != 0 {
		return int64(err), sched.Continue
	}
	if oldsetVA != 0 {
		if err := p.AS.WriteU64(oldsetVA, uint64(oldset)); err != 0 {
			return int64(err), sched.Continue
		}
	}
	return 0, sched.Continue
}

// sysSigreturn implements rt_sigreturn(2) (§4.11 step 4): restores the
// trapframe stashed on the process's scratch page and asks the caller not
// to overwrite a0, since the restored context already carries its own
// return value.
func (d *Dispatcher) sysSigreturn(task *proc.Task, ctx *trapframe.Context) (int64, sched.Disposition) {
	if !sigact.Return(&task.Proc.Scratch, ctx) {
		return -int64(defs.EINVAL), sched.Continue
	}
	return 0, sched.SigReturn
}

// deliverPending redirects execution to signo's handler via the process's
// scratch page (§4.11 steps 1-2) unless signo is blocked. No code path
// calls it, and there is no per-task pending-signal set; kill's only
// effect is the SIGKILL fast path in procops.go.
func (d *Dispatcher) deliverPending(task *proc.Task, ctx *trapframe.Context, signo int) bool {
	if task.SigMask.Blocked(signo) {
		return false
	}
	act := task.Proc.Sig.Get(signo)
	if act.Handler == 0 {
		return false
	}
	return sigact.Deliver(&task.Proc.Scratch, ctx, act, signo, uint64(config.ScratchPageVA))
}
