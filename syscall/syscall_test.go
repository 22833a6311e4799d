package syscall

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/addrspace"
	"rvkernel/fd"
	"rvkernel/mem"
	"rvkernel/proc"
	"rvkernel/procmgr"
	"rvkernel/sched"
)

// newTestProcess builds a minimal process with a real (kernel-half-free)
// address space, fd table, and a single task, enough to drive every
// handler in this package the way addrspace_test.go's newSpace helper
// drives addrspace in isolation.
func newTestProcess(t *testing.T) (*procmgr.Table, *proc.Process, *proc.Task) {
	t.Helper()
	tbl := procmgr.New()
	alloc := mem.NewAllocator(0, 4096, nil)
	phys := mem.NewFakePhysMem()
	as, err := addrspace.New(alloc, phys, 0)
	require.Zero(t, err)

	p := proc.New(tbl.NextPid(), 1)
	p.AS = as
	p.Fds = fd.NewTable(fd.DevNull{}, fd.DevNull{}, fd.DevNull{})
	tbl.Add(p)

	task := p.NewTask(tbl.NextTid())
	return tbl, p, task
}

func newTestDispatcher(tbl *procmgr.Table) *Dispatcher {
	return &Dispatcher{Procs: tbl, Sched: sched.New(5)}
}
