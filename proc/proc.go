// Package proc implements the process and task objects and their
// lifecycle operations (fork, clone, execve, exit, wait4), grounded on
// original_source/kernel/src/task/mod.rs's TaskController/
// TaskControllerManager shapes (§4.7) and on biscuit's Tid_t/Pid_t alias
// types and doomed/killed flag idiom from tinfo/tinfo.go, reworked for a
// single-hart trap-driven kernel with no host goroutines standing in for
// tasks: a Task here is inert data manipulated by the scheduler and trap
// dispatcher, not a running goroutine.
package proc

import (
	"sync"

	"rvkernel/accnt"
	"rvkernel/addrspace"
	"rvkernel/defs"
	"rvkernel/fd"
	"rvkernel/sigact"
	"rvkernel/trapframe"
)

// Status mirrors original_source's TaskStatus enum.
type Status int

const (
	READY Status = iota
	RUNNING
	WAITING
	ZOMBIE
)

// Process is the address-space-and-resources-owning unit: one MemSet/
// page table, one fd table, one sigaction table, shared by every Task
// that belongs to it (clone(CLONE_THREAD) adds tasks, not processes).
type Process struct {
	mu sync.Mutex

	Pid    defs.Pid_t
	Ppid   defs.Pid_t
	AS     *addrspace.AddressSpace
	Fds    *fd.Table
	Sig    *sigact.Table
	Scratch sigact.UserContext // heap's reserved "temp" page, §4.4

	Tasks []*Task

	Exited   bool
	ExitCode int32

	Children []defs.Pid_t

	Self *accnt.Accnt // this process's own accounting
	Dead *accnt.Accnt // merged accounting of reaped children
}

// Task is one schedulable unit: a register context plus the bookkeeping
// the scheduler needs to decide whether it is runnable.
type Task struct {
	Tid     defs.Tid_t
	Proc    *Process
	Ctx     trapframe.Context
	Status  Status
	WakeTick int64 // for nanosleep/ppoll; valid while Status==WAITING
	CtidAddr uintptr
	SigMask sigact.Mask
	FutexParked bool // true while queued in a syscall.FutexTable wait list
}

// New creates a fresh process with no address space yet (the caller —
// execve or the ELF-loading boot path — installs one).
func New(pid, ppid defs.Pid_t) *Process {
	p := &Process{
		Pid:  pid,
		Ppid: ppid,
		Sig:  sigact.NewTable(),
		Self: &accnt.Accnt{},
		Dead: &accnt.Accnt{},
	}
	return p
}

// NewTask attaches a new task to p and returns it; the caller fills in
// Ctx before the task is scheduled.
func (p *Process) NewTask(tid defs.Tid_t) *Task {
	t := &Task{Tid: tid, Proc: p, Status: READY}
	p.mu.Lock()
	p.Tasks = append(p.Tasks, t)
	p.mu.Unlock()
	return t
}

// RemoveTask drops t from p's task list (thread exit).
func (p *Process) RemoveTask(t *Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, pt := range p.Tasks {
		if pt == t {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			return
		}
	}
}

// TaskCount reports how many tasks p currently has (exit_group needs this
// to know whether the calling task is the last one).
func (p *Process) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Tasks)
}

// Fork builds the child process around childAS, which the caller has
// already deep-copied (AddressSpace.Clone); the fd table is a ForkCopy
// whose entries share their open files, and the sigaction table is
// copied. The caller assigns the new tid
// and Ctx (with a0 zeroed for the child, per fork's return-value
// convention) and adds it to the process table.
func (p *Process) Fork(childPid defs.Pid_t, childAS *addrspace.AddressSpace) *Process {
	p.mu.Lock()
	defer p.mu.Unlock()
	child := New(childPid, p.Pid)
	child.AS = childAS
	child.Fds = p.Fds.ForkCopy()
	child.Sig = p.Sig.Fork()
	return child
}

// Exit marks p exited with the given code (§4.7's exit/exit_group); frame
// release is the caller's responsibility once a parent has reaped it
// (procmgr.Wait4 does the AS.Release()).
func (p *Process) Exit(code int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Exited = true
	p.ExitCode = code
}

// PackedStatus returns the wait4 status word: exit_code << 8.
func (p *Process) PackedStatus() int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ExitCode << 8
}
