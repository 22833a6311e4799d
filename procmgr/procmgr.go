// Package procmgr is the process-table arena named in SPEC_FULL.md's §9
// decision on the Process/Task ownership-cycle design note: a single
// Table keyed by pid, holding strong references to every live Process.
// Tasks hold a plain (non-owning) pointer back to their Process; Go's
// tracing GC means no explicit weak-reference bookkeeping is needed.
package procmgr

import (
	"sync"

	"rvkernel/defs"
	"rvkernel/limits"
	"rvkernel/proc"
)

// Table is the pid->Process arena plus the monotonic pid/tid generator,
// adopted from original_source/kernel/src/task/mod.rs's PidGenerater
// (starting at 1000, per SPEC_FULL.md §11).
type Table struct {
	mu      sync.Mutex
	byPid   map[defs.Pid_t]*proc.Process
	nextPid int32
	nextTid int32
	limits  *limits.Limits
}

const initPid = 1000

// New returns an empty table with the pid/tid counters seeded at 1000 and
// biscuit-style conservative process-count ceilings (limits.Default()).
func New() *Table {
	return &Table{
		byPid:   make(map[defs.Pid_t]*proc.Process),
		nextPid: initPid,
		nextTid: initPid,
		limits:  limits.Default(),
	}
}

func (t *Table) NextPid() defs.Pid_t {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.nextPid
	t.nextPid++
	return defs.Pid_t(p)
}

func (t *Table) NextTid() defs.Tid_t {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.nextTid
	t.nextTid++
	return defs.Tid_t(p)
}

// Add installs p into the table, enforcing the process-count ceiling
// (biscuit's Syslimit_t.Sysprocs check ahead of fork/exec succeeding).
// Fails with EAGAIN if the ceiling is already at capacity.
func (t *Table) Add(p *proc.Process) defs.Err_t {
	if !t.limits.Procs.Take() {
		return -defs.EAGAIN
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byPid[p.Pid] = p
	return 0
}

// Get looks up a process by pid.
func (t *Table) Get(pid defs.Pid_t) *proc.Process {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byPid[pid]
}

// Remove drops pid from the table (after a parent has reaped it) and gives
// back its slot in the process-count ceiling.
func (t *Table) Remove(pid defs.Pid_t) {
	t.mu.Lock()
	_, existed := t.byPid[pid]
	delete(t.byPid, pid)
	t.mu.Unlock()
	if existed {
		t.limits.Procs.Give()
	}
}

// ChildrenOf returns the pids of every live process whose parent is pid.
func (t *Table) ChildrenOf(pid defs.Pid_t) []defs.Pid_t {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []defs.Pid_t
	for p, proc := range t.byPid {
		if proc.Ppid == pid {
			out = append(out, p)
		}
	}
	return out
}

// Reparent moves every child of orphan to init (pid 1), matching the
// "killed-task reparenting to pid 1" behaviour adopted from
// original_source's kill_current ("if the ppid of the current task is
// not the kernel, consider waking the process") per SPEC_FULL.md §11.
func (t *Table) Reparent(orphan defs.Pid_t) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.byPid {
		if p.Ppid == orphan {
			p.Ppid = 1
		}
	}
}

// FindExitedChild returns the first exited child of parent matching want
// (-1 for any child), or nil if none is ready to be reaped yet.
func (t *Table) FindExitedChild(parent defs.Pid_t, want defs.Pid_t) *proc.Process {
	t.mu.Lock()
	defer t.mu.Unlock()
	for pid, p := range t.byPid {
		if p.Ppid != parent {
			continue
		}
		if want != -1 && pid != want {
			continue
		}
		if p.Exited {
			return p
		}
	}
	return nil
}

// Wait4 implements the reap half of §4.7/§8's wait4 correctness property:
// if a matching child has already exited, merge its accounting into the
// parent, release its address space, remove it from the table, and
// return (pid, packed status, true). Otherwise returns (0, 0, false) and
// the caller (the trap dispatcher) rewinds sepc and retries via
// sched.ChangeTask, per §4.6's "Tie-breaking" rule.
func (t *Table) Wait4(parent *proc.Process, want defs.Pid_t) (defs.Pid_t, int32, bool) {
	child := t.FindExitedChild(parent.Pid, want)
	if child == nil {
		return 0, 0, false
	}
	parent.Dead.Add(child.Self)
	parent.Dead.Add(child.Dead)
	if child.AS != nil {
		child.AS.Release()
	}
	status := child.PackedStatus()
	pid := child.Pid
	t.Remove(pid)
	return pid, status, true
}
