// Package sigact implements the per-process sigaction table, per-task
// signal mask, and the delivery trampoline through a scratch page (§4.11),
// grounded on original_source/kernel/src/task/signal.rs's SigSet/SigAction/
// SignalUserContext shapes and on the teacher's locking idiom of a mutex
// guarding a small fixed-size table (e.g. proc/proc.go's lock around
// per-process state, not retrievable verbatim from the pack but mirrored
// here as a sync.Mutex over an array).
package sigact

import (
	"sync"

	"rvkernel/defs"
	"rvkernel/trapframe"
)

const NSIG = 64

// How values for sigprocmask(2).
const (
	SIG_BLOCK   = 0
	SIG_UNBLOCK = 1
	SIG_SETMASK = 2
)

// Set is the 64-bit signal mask from original_source's SigSet.
type Set uint64

func (s *Set) Block(other Set)   { *s |= other }
func (s *Set) Unblock(other Set) { *s &^= other }
func (s Set) Has(sig int) bool   { return sig >= 1 && sig <= NSIG && s&(1<<uint(sig-1)) != 0 }

// Action mirrors original_source's SigAction{handler,mask,flags,restorer},
// each field a user virtual address or raw flag word.
type Action struct {
	Handler  uint64
	Mask     Set
	Flags    uint64
	Restorer uint64
}

// Table is the per-process sigaction[0..64] array (§4.11), guarded by a
// single mutex since a process's signal table is shared by all its tasks.
type Table struct {
	mu      sync.Mutex
	actions [NSIG + 1]Action // index 0 unused, signals are 1-based
}

// NewTable returns a table with every signal at its default (ignore)
// disposition.
func NewTable() *Table { return &Table{} }

// Sigaction implements rt_sigaction: copies in newact (if non-nil) and
// copies out the previous action (if oldact non-nil).
func (t *Table) Sigaction(signo int, newact *Action, oldact *Action) defs.Err_t {
	if signo < 1 || signo > NSIG {
		return -defs.EINVAL
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if oldact != nil {
		*oldact = t.actions[signo]
	}
	if newact != nil {
		t.actions[signo] = *newact
	}
	return 0
}

func (t *Table) Get(signo int) Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	if signo < 1 || signo > NSIG {
		return Action{}
	}
	return t.actions[signo]
}

// Fork returns a copy of the table, used when a new process is created
// (sigactions are inherited across fork, reset to default across execve
// per POSIX — callers wanting the execve behaviour should call NewTable
// instead).
func (t *Table) Fork() *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	nt := &Table{}
	nt.actions = t.actions
	return nt
}

// Mask is the per-task blocked-signal set.
type Mask struct {
	mu  sync.Mutex
	set Set
}

// Sigprocmask implements rt_sigprocmask: edits the mask per how, copies
// out the previous mask into oldset if non-nil.
func (m *Mask) Sigprocmask(how int, set *Set, oldset *Set) defs.Err_t {
	m.mu.Lock()
	defer m.mu.Unlock()
	if oldset != nil {
		*oldset = m.set
	}
	if set == nil {
		return 0
	}
	switch how {
	case SIG_BLOCK:
		m.set.Block(*set)
	case SIG_UNBLOCK:
		m.set.Unblock(*set)
	case SIG_SETMASK:
		m.set = *set
	default:
		return -defs.EINVAL
	}
	return 0
}

func (m *Mask) Blocked(sig int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Has(sig)
}

// Stack mirrors original_source's SignalStack (sigaltstack, unused by the
// musl test corpus this targets but kept for rt_sigaction ABI
// completeness).
type Stack struct {
	SP    uint64
	Flags uint32
	Size  uint64
}

// UserContext is the scratch-page record stashed during signal delivery
// (§4.11 step 1), mirroring original_source's SignalUserContext: flags,
// link, an altstack descriptor, the saved mask, and the interrupted
// trapframe.Context. The 15-word pad original_source carries ("very
// strange, maybe a bug of musl libc") is preserved so musl's ucontext_t
// layout assumptions about surrounding padding still hold.
type UserContext struct {
	Flags   uint64
	Link    uint64
	Stack   Stack
	SigMask Set
	Pad     [15]uint64
	Saved   trapframe.Context
	Busy    bool // re-entrant delivery guard, §4.11
}

// Deliver performs the stash-and-redirect half of signal delivery
// (§4.11 steps 1-2): saves ctx into scratch, points the task context at
// the handler with (a0,a1,a2)=(signo,0,scratchVA), ra=restorer. Returns
// false (does nothing) if delivery is already in progress on this task's
// scratch page, per the "re-entrant signal delivery is prevented by a
// busy flag" rule.
func Deliver(scratch *UserContext, ctx *trapframe.Context, act Action, signo int, scratchVA uint64) bool {
	if scratch.Busy {
		return false
	}
	scratch.Busy = true
	scratch.Saved = *ctx
	ctx.Regs[trapframe.RegRa] = act.Restorer
	ctx.Regs[trapframe.RegA0] = uint64(signo)
	ctx.Regs[trapframe.RegA1] = 0
	ctx.Regs[trapframe.RegA2] = scratchVA
	ctx.Sepc = act.Handler
	return true
}

// Return performs the sigreturn half (§4.11 step 4): restores the
// original context from scratch and clears the busy flag. Reports
// whether a delivery was in fact outstanding.
func Return(scratch *UserContext, ctx *trapframe.Context) bool {
	if !scratch.Busy {
		return false
	}
	*ctx = scratch.Saved
	scratch.Busy = false
	return true
}
