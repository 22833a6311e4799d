package klog

import (
	"runtime"
)

// Callerdump prints a short stack trace starting `start` frames up from its
// caller. Adapted from biscuit's caller.Callerdump, used by the task-kill
// path to explain why a task was torn down.
func Callerdump(start int) {
	for i := start; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		f := runtime.FuncForPC(pc)
		name := "?"
		if f != nil {
			name = f.Name()
		}
		Printf("  %s:%d %s\n", file, line, name)
	}
}

// DistinctCaller tracks which call chains (by return-address hash) have
// already been logged once, so a repeated fault path is not re-logged on
// every occurrence. Adapted from biscuit's caller.Distinct_caller_t.
type DistinctCaller struct {
	did map[uintptr]bool
}

// Distinct reports whether the caller chain starting `skip` frames up has
// not been seen before, and records it if so.
func (d *DistinctCaller) Distinct(skip int) bool {
	if d.did == nil {
		d.did = make(map[uintptr]bool)
	}
	var h uintptr
	for i := skip; i < skip+4; i++ {
		pc, _, _, ok := runtime.Caller(i)
		if !ok {
			break
		}
		h ^= pc
	}
	if d.did[h] {
		return false
	}
	d.did[h] = true
	return true
}
