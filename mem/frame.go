// Package mem implements the physical frame allocator (§4.1). It replaces
// biscuit's mem.Physmem_t — which is refcounted, per-CPU, and aware of
// multi-level pml4 walking for x86 COW fork (mem/mem.go) — with the much
// simpler boolean bitmap the spec calls for: this kernel has no SMP
// (Non-goal) and no copy-on-write sharing (fork deep-copies per §4.7), so
// neither per-CPU free lists nor page refcounting have a reason to exist
// here. What is kept from the teacher is the shape of the contract: a
// single global allocator guarded by one lock, returning zeroed frames, and
// logging its size at init the way mem.Phys_init does.
package mem

import (
	"fmt"
	"io"
	"sync"

	"rvkernel/config"
	"rvkernel/defs"
)

// Frame is a physical frame number (physical address / PGSIZE).
type Frame uint64

// Addr returns the physical byte address of the frame.
func (f Frame) Addr() uintptr { return uintptr(f) * config.PGSIZE }

// Allocator is a boolean bitmap over [base, base+n*PGSIZE). alloc scans
// forward from the last allocation point; alloc_contig scans backward from
// the top so DMA-friendly contiguous runs concentrate at high frame
// numbers, exactly as §4.1 specifies.
type Allocator struct {
	mu    sync.Mutex
	base  Frame   // first frame number this allocator manages
	used  []bool  // used[i] true means frame base+i is allocated
	scan  int     // next index to try for forward alloc
	zero  func(Frame)
}

// NewAllocator creates an allocator covering nframes frames starting at
// baseFrame. zero is called on every frame handed out by Alloc/AllocContig
// so callers always observe zeroed memory (§3: "Returned frames are
// guaranteed zeroed"); in the real kernel this maps the frame through the
// direct map and memclrs it, an external concern this package does not
// implement itself.
func NewAllocator(baseFrame Frame, nframes int, zero func(Frame)) *Allocator {
	if zero == nil {
		zero = func(Frame) {}
	}
	a := &Allocator{base: baseFrame, used: make([]bool, nframes), zero: zero}
	fmt.Fprintf(LogDest, "Reserved %v frames (%vMB)\n", nframes, nframes*config.PGSIZE/(1<<20))
	return a
}

// LogDest is where NewAllocator's boot-time line goes; rebound to the
// kernel console (klog.Out) during real boot, left as io.Discard for host
// tests so they stay quiet.
var LogDest io.Writer = io.Discard

// Alloc returns the first free frame at or after the last allocation
// point (wrapping around to the start), marks it used, zeroes it,
// and returns it. Fails with ENOMEM ("NoEnoughPage" in the spec's
// vocabulary, §7) once no free bit remains.
func (a *Allocator) Alloc() (Frame, defs.Err_t) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.used)
	for i := 0; i < n; i++ {
		idx := (a.scan + i) % n
		if !a.used[idx] {
			a.used[idx] = true
			a.scan = idx + 1
			f := a.base + Frame(idx)
			a.zero(f)
			return f, 0
		}
	}
	return 0, -defs.ENOMEM
}

// AllocContig scans backward from the top of the managed range and returns
// the lowest frame of the first run of n consecutive free bits found,
// matching §4.1's backward-scan policy.
func (a *Allocator) AllocContig(n int) (Frame, defs.Err_t) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n <= 0 {
		return 0, -defs.EINVAL
	}
	total := len(a.used)
	run := 0
	for i := total - 1; i >= 0; i-- {
		if !a.used[i] {
			run++
			if run == n {
				start := i
				for j := start; j < start+n; j++ {
					a.used[j] = true
				}
				f := a.base + Frame(start)
				for j := 0; j < n; j++ {
					a.zero(f + Frame(j))
				}
				return f, 0
			}
		} else {
			run = 0
		}
	}
	return 0, -defs.ENOMEM
}

// Free returns a single frame to the pool. No coalescing is performed
// (none is needed for a boolean bitmap); double-free is a programming
// error the allocator does not detect, exactly as §3 states for frame
// lifecycle.
func (a *Allocator) Free(f Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := int(f - a.base)
	a.used[idx] = false
}

// FreeContig releases n frames starting at f.
func (a *Allocator) FreeContig(f Frame, n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	start := int(f - a.base)
	for i := start; i < start+n; i++ {
		a.used[i] = false
	}
}

// Stats reports how many frames are currently allocated, for the frame
// conservation property test (§8).
func (a *Allocator) Stats() (allocated, total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, u := range a.used {
		if u {
			allocated++
		}
	}
	return allocated, len(a.used)
}
