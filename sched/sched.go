// Package sched implements the single FIFO ready-queue scheduler (§4.6),
// grounded on original_source/kernel/src/task/mod.rs's
// TaskControllerManager (add/kill_current/switch_to_next/wait_pid) but
// restructured around Go values instead of Arc<Mutex<..>>: the scheduler
// is single-hart and re-entered fresh on every trap (§5), so a plain
// mutex-guarded slice is enough — no async runtime, no blocking queue.
package sched

import (
	"sync"

	"rvkernel/proc"
)

// Disposition is the control-signal enum from SPEC_FULL.md §7: not an
// error, but an instruction to the trap dispatcher about what to do
// after a syscall or fault handler returns.
type Disposition int

const (
	// Continue means resume the current task normally.
	Continue Disposition = iota
	// ChangeTask means rotate to the next ready task now.
	ChangeTask
	// KillCurrentTask means the current task is fatally wounded.
	KillCurrentTask
	// SigReturn means unwind a signal frame (handled by sigact.Return
	// before the dispatcher ever sees this value on the normal path;
	// kept here so trap/syscall code can name it uniformly).
	SigReturn
)

// Scheduler holds the FIFO ready queue and the currently running task.
type Scheduler struct {
	mu      sync.Mutex
	ready   []*proc.Task
	current *proc.Task
	ticks   int64
	interval int64
}

// New creates a scheduler that preempts the current task every interval
// ticks (config.TickInterval in the caller).
func New(interval int64) *Scheduler {
	return &Scheduler{interval: interval}
}

// Add appends t to the tail of the ready queue (§5: fork/clone place new
// tasks at the tail).
func (s *Scheduler) Add(t *proc.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Status = proc.READY
	s.ready = append(s.ready, t)
}

// Current returns the task presently selected to run, or nil if none is
// selected (the caller should then pop a boot command, §4.13).
func (s *Scheduler) Current() *proc.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Next rotates: the current task (if any and still runnable) goes to the
// tail, and the new head becomes current. Returns nil if no task is
// ready.
func (s *Scheduler) Next() *proc.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.Status == proc.RUNNING {
		s.current.Status = proc.READY
		s.ready = append(s.ready, s.current)
	}
	s.current = nil
	if len(s.ready) == 0 {
		return nil
	}
	next := s.ready[0]
	s.ready = s.ready[1:]
	next.Status = proc.RUNNING
	s.current = next
	return next
}

// Remove drops t from scheduling entirely (exit/execve of the last
// thread, or a killed task) without requeueing it.
func (s *Scheduler) Remove(t *proc.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == t {
		s.current = nil
	}
	for i, rt := range s.ready {
		if rt == t {
			s.ready = append(s.ready[:i], s.ready[i+1:]...)
			return
		}
	}
}

// Park moves t out of the ready rotation into WAITING, for nanosleep/
// ppoll/wait4-with-no-exited-child (§4.6's "left at the head" rule is
// realized here as: do not requeue, rely on the caller retrying the
// syscall via ChangeTask until the wait condition is satisfied).
func (s *Scheduler) Park(t *proc.Task, wakeTick int64) {
	t.Status = proc.WAITING
	t.WakeTick = wakeTick
}

// Tick advances the scheduler's tick counter and reports whether this
// tick should trigger a preemptive rotation (§4.6: "each INTERVAL ticks
// the timer handler sets the front task's status to READY and rotates").
func (s *Scheduler) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks++
	return s.interval > 0 && s.ticks%s.interval == 0
}

// Ticks returns the current tick count (used by nanosleep/clock_gettime
// handlers to compute elapsed/remaining time).
func (s *Scheduler) Ticks() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Len reports the number of ready tasks (excluding current), used to
// decide when to pop the next boot command (§4.13).
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ready)
}

// Empty reports whether there is neither a current task nor any ready
// task — the signal to pop the boot job queue or, if that is empty too,
// shut down (§6).
func (s *Scheduler) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == nil && len(s.ready) == 0
}
