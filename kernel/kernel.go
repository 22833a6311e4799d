// Package kernel wires every subsystem this core builds into the one
// singleton the boot path drives, per SPEC_FULL.md §9's decision: "a
// single *kernel.Kernel struct (grounded on biscuit's singleton
// mem.Physmem/Syslimit pattern, but collected into one explicit value
// rather than left as untyped package globals) is threaded through sched,
// procmgr, and syscall constructors." The package-level vars that remain
// are the log sinks klog.Out and mem.LogDest.
package kernel

import (
	"rvkernel/addrspace"
	"rvkernel/config"
	"rvkernel/defs"
	"rvkernel/elf"
	"rvkernel/fd"
	"rvkernel/fs"
	"rvkernel/hart"
	"rvkernel/klog"
	"rvkernel/mem"
	"rvkernel/proc"
	"rvkernel/procmgr"
	"rvkernel/sched"
	"rvkernel/syscall"
	"rvkernel/taskqueue"
	"rvkernel/trap"
	"rvkernel/trapframe"
)

// Kernel holds every piece of global kernel state: the frame allocator,
// the process table, the scheduler, the syscall dispatcher, the boot job
// queue, and the file tree new processes are exec'd from.
type Kernel struct {
	Alloc *mem.Allocator
	Phys  mem.PhysMem

	Procs      *procmgr.Table
	Sched      *sched.Scheduler
	Dispatcher *syscall.Dispatcher
	Queue      *taskqueue.Queue
	Tree       fs.FileTree
}

// New builds a kernel over phys-backed RAM starting at baseFrame,
// spanning nframes page frames (config.RamSize/config.PGSIZE on the real
// target, a smaller span in host tests). tree supplies the programs
// execve and the boot queue load; nil leaves the loader permanently
// ENOENT'ing, matching a fresh Dispatcher's documented default.
func New(baseFrame mem.Frame, nframes int, phys mem.PhysMem, tree fs.FileTree) *Kernel {
	zero := func(f mem.Frame) {
		b := phys.Bytes(f)
		for i := range b {
			b[i] = 0
		}
	}
	alloc := mem.NewAllocator(baseFrame, nframes, zero)
	procs := procmgr.New()
	s := sched.New(config.TickInterval)

	k := &Kernel{
		Alloc: alloc,
		Phys:  phys,
		Procs: procs,
		Sched: s,
		Queue: taskqueue.New(),
		Tree:  tree,
	}
	k.Dispatcher = &syscall.Dispatcher{
		Procs:  procs,
		Sched:  s,
		Clock:  tickClock{s},
		Loader: k.loadFromTree,
		Tree:   tree,
	}
	return k
}

// tickClock adapts *sched.Scheduler to syscall.ClockSource: one scheduler
// tick is one supervisor-timer interrupt, counted as 10ms of wall-clock
// time.
type tickClock struct{ s *sched.Scheduler }

func (c tickClock) Ticks() int64        { return c.s.Ticks() }
func (c tickClock) NanosPerTick() int64 { return 10_000_000 }

// discardConsole backs stdio until a real SBI console driver is wired in
// (§1 names the SBI console as an external collaborator); reads report EOF
// immediately and writes are dropped, so a boot job touching stdio never
// blocks forever on a console that doesn't exist yet.
type discardConsole struct{}

func (discardConsole) ReadByte() (byte, bool) { return 0, false }
func (discardConsole) WriteByte(byte)         {}

func (k *Kernel) loadFromTree(path string) ([]byte, defs.Err_t) {
	if k.Tree == nil {
		return nil, -defs.ENOENT
	}
	return k.Tree.ReadFile(path)
}

// SpawnInit execve's argv[0] into a brand-new process (§6's boot
// sequence). The process takes the next pid from procmgr (the first is
// 1000) and is its own parent (ppid == pid).
func (k *Kernel) SpawnInit(argv []string) (*proc.Task, defs.Err_t) {
	if len(argv) == 0 {
		return nil, -defs.ENOENT
	}
	data, err := k.loadFromTree(argv[0])
	if err != 0 {
		return nil, err
	}
	h, phs, perr := elf.ParseHeader(data)
	if perr != 0 {
		return nil, perr
	}

	pid := k.Procs.NextPid()
	p := proc.New(pid, pid)
	p.Fds = fd.NewTable(
		&fd.Stdio{Con: discardConsole{}, Input: true},
		&fd.Stdio{Con: discardConsole{}},
		&fd.Stdio{Con: discardConsole{}},
	)

	as, aerr := addrspace.New(k.Alloc, k.Phys, config.RamSize)
	if aerr != 0 {
		return nil, aerr
	}
	if err := elf.Load(as, k.Alloc, k.Phys, data, phs); err != 0 {
		return nil, err
	}
	p.AS = as
	if err := k.Procs.Add(p); err != 0 {
		return nil, err
	}

	phdr := elf.PhdrVA(h, phs)
	var random [16]byte
	envp := []string{"HOME=/"}
	stackBuf := elf.StackImage(argv, envp, h.Entry, phdr, 56, len(phs), config.StackTop, random)
	stackBase := uintptr(config.StackTop) - uintptr(len(stackBuf))
	if _, err := as.WriteBytes(stackBase, stackBuf); err != 0 {
		return nil, err
	}

	task := p.NewTask(k.Procs.NextTid())
	task.Ctx.Sepc = h.Entry
	task.Ctx.SetSP(uint64(stackBase))
	k.Sched.Add(task)
	return task, 0
}

// RunOnce performs one iteration of the trap loop described in §4.6/§5:
// if nothing is runnable, pop and spawn the next boot job; otherwise
// enter the head task, wait for its next trap (delivered by scause/stval
// from the caller, since Entervm/Trapentry never return through Go's call
// stack on real hardware), and dispatch it. Returns false once both the
// ready queue and the boot queue are empty (§6's shutdown signal).
func (k *Kernel) RunOnce(scause, stval uint64) bool {
	if k.Sched.Empty() {
		argv, ok := k.Queue.Pop()
		if !ok {
			return false
		}
		if _, err := k.SpawnInit(argv); err != 0 {
			klog.Printf("kernel: failed to spawn boot job %v: %v\n", argv, err)
		}
		return true
	}

	task := k.Sched.Next()
	if task == nil {
		return true
	}

	handlers := trap.Handlers{
		Syscall: func(ctx *trapframe.Context) (int64, sched.Disposition) {
			return k.Dispatcher.Dispatch(task, ctx)
		},
		Tick: k.Sched.Tick,
	}
	disp := trap.Dispatch(&task.Ctx, scause, stval, task.Proc.AS, handlers)
	switch disp {
	case sched.KillCurrentTask:
		// A fatal fault (unhandled page fault, illegal instruction, ...)
		// terminates the task the same way exit(2) would (§4.5: "any other
		// exception kills the current task"), reusing sysExit's bookkeeping
		// rather than duplicating it.
		k.Dispatcher.Dispatch(task, &trapframe.Context{Regs: [32]uint64{trapframe.RegA7: defs.SYS_exit}})
	case sched.ChangeTask:
		k.Sched.Next()
	}
	return true
}

// EnterUser hands control to hart.Entervm for t, the one call on real
// hardware that does not return through Go's stack — the next time Go
// code runs is Trapentry, which this package never calls directly (§9's
// "one assembly-only boundary").
func (k *Kernel) EnterUser(t *proc.Task) {
	hart.Entervm(&t.Ctx, t.Proc.AS.PT.Satp())
}
