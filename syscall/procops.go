package syscall

import (
	"rvkernel/defs"
	"rvkernel/elf"
	"rvkernel/proc"
	"rvkernel/sched"
	"rvkernel/trapframe"
)

// sysExit implements exit(2): marks the task doomed; if it is the last
// task of its process, the process exits too, per §4.7.
func (d *Dispatcher) sysExit(task *proc.Task, code int32) (int64, sched.Disposition) {
	p := task.Proc
	p.RemoveTask(task)
	d.Sched.Remove(task)
	if p.TaskCount() == 0 {
		p.Exit(code)
		d.Procs.Reparent(p.Pid)
	}
	return 0, sched.ChangeTask
}

// sysExitGroup implements exit_group(2): all tasks of the process exit
// immediately regardless of how many remain.
func (d *Dispatcher) sysExitGroup(task *proc.Task, code int32) (int64, sched.Disposition) {
	p := task.Proc
	for _, t := range append([]*proc.Task(nil), p.Tasks...) {
		d.Sched.Remove(t)
	}
	p.Tasks = nil
	p.Exit(code)
	d.Procs.Reparent(p.Pid)
	return 0, sched.ChangeTask
}

// sysClone implements clone(2)/fork(2) (§4.7): any flag combination
// without CLONE_VM (ForkFlagsA/B among them) is a plain fork (new process,
// deep-copied address space); with CLONE_VM set it creates a new task
// sharing the caller's process (threads), with sp/tp set from newsp/tls.
func (d *Dispatcher) sysClone(task *proc.Task, ctx *trapframe.Context, flags, newsp, _ptid, tls, _ctid uint64) (int64, sched.Disposition) {
	p := task.Proc

	if flags&defs.CLONE_VM == 0 {
		// fork: new process, deep-copied everything (§4.7).
		childPid := d.Procs.NextPid()
		childAS, err := p.AS.Clone()
		if err != 0 {
			return int64(err), sched.Continue
		}
		child := p.Fork(childPid, childAS)
		if err := d.Procs.Add(child); err != 0 {
			return int64(err), sched.Continue
		}

		childTask := child.NewTask(d.Procs.NextTid())
		childTask.Ctx = *ctx
		childTask.Ctx.SetReturn(0)
		d.Sched.Add(childTask)
		return int64(childPid), sched.Continue
	}

	// thread: new task, same process.
	newTask := p.NewTask(d.Procs.NextTid())
	newTask.Ctx = *ctx
	if newsp != 0 {
		newTask.Ctx.SetSP(newsp)
	}
	newTask.Ctx.SetTP(tls)
	newTask.Ctx.SetReturn(0)
	d.Sched.Add(newTask)
	return int64(newTask.Tid), sched.Continue
}

// sysExecve implements execve(2) (§4.7): resets the address space in
// place, loads the new ELF, rebuilds the stack, drops CLOEXEC fds, and
// points sepc at the entry.
func (d *Dispatcher) sysExecve(task *proc.Task, pathVA, argvVA, envpVA uintptr) (int64, sched.Disposition) {
	p := task.Proc
	path, err := p.AS.ReadString(pathVA, 256)
	if err != 0 {
		return int64(err), sched.Continue
	}
	argv, err := readStringVector(p.AS, argvVA)
	if err != 0 {
		return int64(err), sched.Continue
	}
	envp, err := readStringVector(p.AS, envpVA)
	if err != 0 {
		return int64(err), sched.Continue
	}

	data, ferr := d.loadProgram(path)
	if ferr != 0 {
		return int64(ferr), sched.Continue
	}

	h, phs, perr := elf.ParseHeader(data)
	if perr != 0 {
		return int64(perr), sched.Continue
	}

	newAS, err := p.AS.Reset()
	if err != 0 {
		return int64(err), sched.Continue
	}
	if err := elf.Load(newAS, newAS.Allocator(), newAS.Phys(), data, phs); err != 0 {
		return int64(err), sched.Continue
	}

	phdr := elf.PhdrVA(h, phs)
	var random [16]byte
	stackBuf := elf.StackImage(argv, envp, h.Entry, phdr, 56, len(phs), uint64(0xF000_1000), random)
	stackBase := uintptr(0xF000_1000) - uintptr(len(stackBuf))
	if _, err := newAS.WriteBytes(stackBase, stackBuf); err != 0 {
		return int64(err), sched.Continue
	}

	p.AS = newAS
	p.Fds.CloseCloexec()

	task.Ctx = trapframe.Context{}
	task.Ctx.Sepc = h.Entry
	task.Ctx.SetSP(uint64(stackBase))
	return 0, sched.Continue
}

// loadProgram reads an executable's bytes from the (external, §1) file
// tree through d.Loader. With a nil Loader it returns ENOENT for every
// path.
func (d *Dispatcher) loadProgram(path string) ([]byte, defs.Err_t) {
	if d.Loader != nil {
		return d.Loader(path)
	}
	return nil, -defs.ENOENT
}

func readStringVector(as interface {
	ReadU64(uintptr) (uint64, defs.Err_t)
	ReadString(uintptr, int) (string, defs.Err_t)
}, va uintptr) ([]string, defs.Err_t) {
	if va == 0 {
		return nil, 0
	}
	var out []string
	for i := 0; ; i++ {
		ptr, err := as.ReadU64(va + uintptr(i*8))
		if err != 0 {
			return nil, err
		}
		if ptr == 0 {
			break
		}
		s, err := as.ReadString(uintptr(ptr), 4096)
		if err != 0 {
			return nil, err
		}
		out = append(out, s)
	}
	return out, 0
}

// sysWait4 implements wait4(2) (§4.7/§8): reaps an already-exited child if
// one exists; otherwise rewinds sepc by 4 and asks for a rotation so the
// syscall is retried on the next scheduling pass (§4.6's tie-breaking
// rule).
func (d *Dispatcher) sysWait4(task *proc.Task, ctx *trapframe.Context, want defs.Pid_t, statusVA uintptr) (int64, sched.Disposition) {
	pid, status, ok := d.Procs.Wait4(task.Proc, want)
	if !ok {
		ctx.RewindPC(4)
		return 0, sched.ChangeTask
	}
	if statusVA != 0 {
		var buf [4]byte
		buf[0] = byte(status)
		buf[1] = byte(status >> 8)
		buf[2] = byte(status >> 16)
		buf[3] = byte(status >> 24)
		task.Proc.AS.WriteBytes(statusVA, buf[:])
	}
	return int64(pid), sched.Continue
}

// sysKill implements a minimal kill(2): only SIGKILL (9) is honoured,
// tearing the target process down immediately; anything else is a no-op
// success, since signal delivery across processes is not wired into the
// scheduler's trap loop beyond the current task (§4.11 covers self/
// synchronous delivery, which the trap dispatcher itself handles).
func (d *Dispatcher) sysKill(pid defs.Pid_t, signo int) (int64, sched.Disposition) {
	target := d.Procs.Get(pid)
	if target == nil {
		return -int64(defs.ESRCH), sched.Continue
	}
	const sigkill = 9
	if signo == sigkill {
		for _, t := range target.Tasks {
			d.Sched.Remove(t)
		}
		target.Exit(-1)
		d.Procs.Reparent(pid)
	}
	return 0, sched.Continue
}
