package syscall

import (
	"rvkernel/accnt"
	"rvkernel/proc"
	"rvkernel/sched"
	"rvkernel/trapframe"
)

// ticksToNanos converts a tick count to nanoseconds using the configured
// clock source, defaulting to a 10ms tick when no ClockSource is wired
// in.
func (d *Dispatcher) ticksToNanos(ticks int64) int64 {
	if d.Clock == nil {
		return ticks * 10_000_000
	}
	return ticks * d.Clock.NanosPerTick()
}

func (d *Dispatcher) nowTicks() int64 {
	if d.Clock != nil {
		return d.Clock.Ticks()
	}
	return d.Sched.Ticks()
}

// sysNanosleep implements nanosleep(2) (§5's "Cancellation/timeout"
// rule): on first entry it computes and stores an absolute wake tick on
// the task and parks it; on retry (after ChangeTask rotations) it checks
// whether that tick has passed.
func (d *Dispatcher) sysNanosleep(task *proc.Task, ctx *trapframe.Context, reqVA uintptr) (int64, sched.Disposition) {
	if task.WakeTick == 0 {
		sec, _ := task.Proc.AS.ReadU64(reqVA)
		nsec, _ := task.Proc.AS.ReadU64(reqVA + 8)
		durTicks := (int64(sec)*1_000_000_000 + int64(nsec)) / d.ticksToNanos(1)
		if durTicks <= 0 {
			durTicks = 1
		}
		task.WakeTick = d.nowTicks() + durTicks
		d.Sched.Park(task, task.WakeTick)
		ctx.RewindPC(4)
		return 0, sched.ChangeTask
	}
	if d.nowTicks() < task.WakeTick {
		ctx.RewindPC(4)
		return 0, sched.ChangeTask
	}
	task.WakeTick = 0
	return 0, sched.Continue
}

func (d *Dispatcher) sysClockGettime(task *proc.Task, tsVA uintptr) (int64, sched.Disposition) {
	ns := d.ticksToNanos(d.nowTicks())
	var buf [16]byte
	putI64(buf[0:8], ns/1_000_000_000)
	putI64(buf[8:16], ns%1_000_000_000)
	if _, err := task.Proc.AS.WriteBytes(tsVA, buf[:]); err != 0 {
		return int64(err), sched.Continue
	}
	return 0, sched.Continue
}

func (d *Dispatcher) sysGettimeofday(task *proc.Task, tvVA uintptr) (int64, sched.Disposition) {
	ns := d.ticksToNanos(d.nowTicks())
	var buf [16]byte
	putI64(buf[0:8], ns/1_000_000_000)
	putI64(buf[8:16], (ns%1_000_000_000)/1000)
	if tvVA == 0 {
		return 0, sched.Continue
	}
	if _, err := task.Proc.AS.WriteBytes(tvVA, buf[:]); err != 0 {
		return int64(err), sched.Continue
	}
	return 0, sched.Continue
}

func (d *Dispatcher) sysTimes(task *proc.Task, bufVA uintptr) (int64, sched.Disposition) {
	p := task.Proc
	tms := accnt.ToTms(p.Self, p.Dead)
	if bufVA != 0 {
		if _, err := p.AS.WriteBytes(bufVA, tms); err != 0 {
			return int64(err), sched.Continue
		}
	}
	return d.nowTicks(), sched.Continue
}

func (d *Dispatcher) sysGetrusage(task *proc.Task, who int, bufVA uintptr) (int64, sched.Disposition) {
	p := task.Proc
	rusage := p.Self.ToRusage()
	if _, err := p.AS.WriteBytes(bufVA, rusage); err != 0 {
		return int64(err), sched.Continue
	}
	return 0, sched.Continue
}

func putI64(b []byte, v int64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v)
		v >>= 8
	}
}
