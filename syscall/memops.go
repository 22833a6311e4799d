package syscall

import (
	"rvkernel/config"
	"rvkernel/defs"
	"rvkernel/memset"
	"rvkernel/proc"
	"rvkernel/sched"
)

func (d *Dispatcher) sysBrk(task *proc.Task, newTop uintptr) (int64, sched.Disposition) {
	top, err := task.Proc.AS.Brk(newTop)
	if err != 0 {
		return int64(err), sched.Continue
	}
	return int64(top), sched.Continue
}

// sysMmap implements the anonymous-mapping subset of mmap(2) exercised by
// the musl test corpus (§8 scenario 3): MAP_ANONYMOUS|MAP_PRIVATE only,
// backed by freshly allocated zero frames placed via MemSet.NextHint.
// File-backed mappings are out of scope (Non-goal: demand paging of file
// contents).
func (d *Dispatcher) sysMmap(task *proc.Task, hint uintptr, length uint64, prot, flags int) (int64, sched.Disposition) {
	as := task.Proc.AS
	if flags&defs.MAP_ANONYMOUS == 0 {
		return -int64(defs.ENOSYS), sched.Continue
	}
	npages := (uintptr(length) + config.PGSIZE - 1) / config.PGSIZE
	if npages == 0 {
		npages = 1
	}
	va := hint
	if va == 0 || flags&defs.MAP_FIXED == 0 {
		va = as.Set.NextHint(config.MmapHintBase)
	}
	perm := memset.Perm{
		R: prot&defs.PROT_READ != 0,
		W: prot&defs.PROT_WRITE != 0,
		X: prot&defs.PROT_EXEC != 0,
	}

	region := &memset.MemMap{StartVA: va, Perm: perm}
	for i := uintptr(0); i < npages; i++ {
		f, err := as.Allocator().Alloc()
		if err != 0 {
			return int64(err), sched.Continue
		}
		region.Frames = append(region.Frames, f)
	}
	if err := as.Set.Push(region, as.PT); err != 0 {
		return int64(err), sched.Continue
	}
	return int64(va), sched.Continue
}

// sysMunmap implements munmap(2) (§4.12, §8 scenario 3): the covered pages
// are unmapped from the page table and their frames freed, so a later
// access to any of them takes a fresh store/load page fault instead of
// silently continuing to see the old mapping.
func (d *Dispatcher) sysMunmap(task *proc.Task, addr uintptr, length uint64) (int64, sched.Disposition) {
	as := task.Proc.AS
	if err := as.Set.Unmap(as.Allocator(), as.PT, addr, uintptr(length)); err != 0 {
		return int64(err), sched.Continue
	}
	return 0, sched.Continue
}
