// Package addrspace bundles one process's page table, MemSet, stack, and
// heap into the single object every task of that process shares — the
// counterpart of biscuit's vm.Vm_t. Userdmap8_inner/Userstr/Userreadn/
// Userwriten from vm/as.go and the Userbuf_t copy loop from
// vm/userbuf.go are the direct model for Translate/ReadBytes/WriteBytes/
// ReadString below; the COW fault resolution in biscuit's Sys_pgfault is
// replaced by the much smaller EnsureStackPage, since this kernel's only
// fault-time allocation is lazy stack growth (§4.4) — mmap and PT_LOAD
// regions are always fully backed at creation time (Non-goal: demand
// paging of file contents).
package addrspace

import (
	"rvkernel/config"
	"rvkernel/defs"
	"rvkernel/hart"
	"rvkernel/mem"
	"rvkernel/memset"
	"rvkernel/pagetable"
)

// AddressSpace is the per-process address space: page table, anonymous
// regions (ELF segments and mmap), the lazily-grown user stack, and the
// brk-style heap.
type AddressSpace struct {
	PT    *pagetable.Table
	Set   memset.MemSet
	Stack *memset.MemMap // grows downward within [StackLoBound, StackTop)
	Heap  *memset.MemMap // grows upward from HeapBase one page at a time

	alloc   *mem.Allocator
	phys    mem.PhysMem
	ramSize uintptr
}

// New creates a fresh address space with the kernel half identity-mapped
// and no user regions installed yet.
func New(alloc *mem.Allocator, phys mem.PhysMem, ramSize uintptr) (*AddressSpace, defs.Err_t) {
	pt, err := pagetable.New(alloc, phys)
	if err != 0 {
		return nil, err
	}
	if err := pt.CloneKernelHalf(ramSize); err != 0 {
		return nil, err
	}
	return &AddressSpace{PT: pt, alloc: alloc, phys: phys, ramSize: ramSize}, 0
}

// PushELFSegment installs a PT_LOAD region (§4.8). frames must already hold
// the segment's bytes (filesz copied, remainder zero).
func (as *AddressSpace) PushELFSegment(va uintptr, frames []mem.Frame, perm memset.Perm) defs.Err_t {
	return as.Set.Push(&memset.MemMap{StartVA: va, Frames: frames, Perm: perm}, as.PT)
}

// EnsureStackPage grows the stack down to include faultVA, allocating and
// mapping exactly the frames between the current stack low edge and
// faultVA's page, per §4.4/§8's lazy-stack-growth property. The stack's
// high edge is StackTop, so the window [StackLoBound, StackTop) also holds
// the initial page above StackHiBound that the argv/envp/auxv image is
// written into. Returns EFAULT if faultVA falls outside that window.
func (as *AddressSpace) EnsureStackPage(faultVA uintptr) defs.Err_t {
	if faultVA < config.StackLoBound || faultVA >= config.StackTop {
		return -defs.EFAULT
	}
	pageVA := faultVA &^ (config.PGSIZE - 1)
	if as.Stack == nil {
		as.Stack = &memset.MemMap{StartVA: config.StackTop, Perm: memset.Perm{R: true, W: true}}
	}
	low := as.Stack.StartVA - uintptr(len(as.Stack.Frames))*config.PGSIZE
	if pageVA >= low {
		// already mapped (can happen if two faults race within one trap
		// window in a future SMP extension; single-hart makes this dead
		// code today, kept because EnsureStackPage must be idempotent).
		return 0
	}
	var newFrames []mem.Frame
	for v := low - config.PGSIZE; v >= pageVA; v -= config.PGSIZE {
		f, err := as.alloc.Alloc()
		if err != 0 {
			for _, nf := range newFrames {
				as.alloc.Free(nf)
			}
			return err
		}
		if err := as.PT.Map(f.Addr(), v, memset.Perm{R: true, W: true}.PTEFlags()); err != 0 {
			as.alloc.Free(f)
			return err
		}
		newFrames = append([]mem.Frame{f}, newFrames...)
		if v == 0 {
			break
		}
	}
	as.Stack.Frames = append(newFrames, as.Stack.Frames...)
	return 0
}

// Brk implements brk(2) (§4.4): newTop==0 returns the current top; any
// other value extends the heap by at most one page per call regardless of
// how far newTop asks to grow (§4.4: "extends by at most one page at a
// time; larger asks return the old top").
func (as *AddressSpace) Brk(newTop uintptr) (uintptr, defs.Err_t) {
	if as.Heap == nil {
		as.Heap = &memset.MemMap{StartVA: config.HeapBase, Perm: memset.Perm{R: true, W: true}}
	}
	cur := as.Heap.EndVA()
	if newTop == 0 || newTop <= cur {
		return cur, 0
	}
	f, err := as.alloc.Alloc()
	if err != 0 {
		return cur, err
	}
	if err := as.PT.Map(f.Addr(), cur, memset.Perm{R: true, W: true}.PTEFlags()); err != 0 {
		as.alloc.Free(f)
		return cur, err
	}
	as.Heap.Frames = append(as.Heap.Frames, f)
	return cur, 0
}

// Translate walks the page table for va, growing the stack on demand when
// va falls in the stack window and is not yet backed (mirrors
// Userdmap8_inner's page-fault-triggering behaviour, simplified since this
// kernel has no COW path to resolve).
func (as *AddressSpace) Translate(va uintptr, write bool) ([]byte, defs.Err_t) {
	pa, flags, ok := as.PT.Translate(va)
	if !ok {
		if err := as.EnsureStackPage(va); err != 0 {
			return nil, -defs.EFAULT
		}
		pa, flags, ok = as.PT.Translate(va)
		if !ok {
			return nil, -defs.EFAULT
		}
	}
	if write && flags&hart.PteW == 0 {
		return nil, -defs.EFAULT
	}
	off := pa & (config.PGSIZE - 1)
	frame := mem.Frame((pa - off) / config.PGSIZE)
	return as.phys.Bytes(frame)[off:], 0
}

// ReadBytes/WriteBytes copy across page boundaries the way
// Userbuf_t.Uioread/Uiowrite do, looping Translate per page.
func (as *AddressSpace) ReadBytes(va uintptr, dst []byte) (int, defs.Err_t) {
	return as.tx(va, dst, false)
}

func (as *AddressSpace) WriteBytes(va uintptr, src []byte) (int, defs.Err_t) {
	return as.tx(va, src, true)
}

func (as *AddressSpace) tx(va uintptr, buf []byte, write bool) (int, defs.Err_t) {
	done := 0
	for len(buf) > 0 {
		chunk, err := as.Translate(va+uintptr(done), write)
		if err != 0 {
			return done, err
		}
		n := len(chunk)
		if n > len(buf) {
			n = len(buf)
		}
		if write {
			copy(chunk[:n], buf[:n])
		} else {
			copy(buf[:n], chunk[:n])
		}
		buf = buf[n:]
		done += n
	}
	return done, 0
}

// ReadString copies a NUL-terminated string from va, up to maxlen bytes,
// mirroring vm.Vm_t.Userstr.
func (as *AddressSpace) ReadString(va uintptr, maxlen int) (string, defs.Err_t) {
	buf := make([]byte, 0, 64)
	for i := 0; i < maxlen; i++ {
		one := make([]byte, 1)
		if _, err := as.ReadBytes(va+uintptr(i), one); err != 0 {
			return "", err
		}
		if one[0] == 0 {
			return string(buf), 0
		}
		buf = append(buf, one[0])
	}
	return "", -defs.ENAMETOOLONG
}

// ReadU64/WriteU64 mirror Userreadn/Userwriten for the fixed-size word
// reads the syscall layer needs (e.g. iovec entries, timespec fields).
func (as *AddressSpace) ReadU64(va uintptr) (uint64, defs.Err_t) {
	var buf [8]byte
	if _, err := as.ReadBytes(va, buf[:]); err != 0 {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v, 0
}

// ReadU32 reads a little-endian 32-bit word, used by the futex(2) word
// comparison (§4.12's sync category).
func (as *AddressSpace) ReadU32(va uintptr) (uint32, defs.Err_t) {
	var buf [4]byte
	if _, err := as.ReadBytes(va, buf[:]); err != 0 {
		return 0, err
	}
	var v uint32
	for i := 3; i >= 0; i-- {
		v = v<<8 | uint32(buf[i])
	}
	return v, 0
}

func (as *AddressSpace) WriteU64(va uintptr, v uint64) defs.Err_t {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v)
		v >>= 8
	}
	_, err := as.WriteBytes(va, buf[:])
	return err
}

// Release frees every frame this address space owns: MemSet regions, stack,
// and heap (used by process exit and by execve's in-place reset, §4.7).
func (as *AddressSpace) Release() {
	as.Set.Release(as.alloc)
	if as.Stack != nil {
		for _, f := range as.Stack.Frames {
			as.alloc.Free(f)
		}
		as.Stack = nil
	}
	if as.Heap != nil {
		for _, f := range as.Heap.Frames {
			as.alloc.Free(f)
		}
		as.Heap = nil
	}
}

// Allocator and Phys expose the frame allocator and physical-memory view
// this address space was built with, needed by callers (the ELF loader,
// fork) that must allocate frames outside of MemSet/Stack/Heap's own
// bookkeeping.
func (as *AddressSpace) Allocator() *mem.Allocator { return as.alloc }
func (as *AddressSpace) Phys() mem.PhysMem         { return as.phys }

// Clone performs fork's deep-copy of this address space (§4.7): a fresh
// page table with the same kernel-half identity map, an independent
// byte-for-byte copy of every MemSet region, and independent stack/heap
// frames, so writes in the child are never visible to the parent (§8's
// fork-isolation property).
func (as *AddressSpace) Clone() (*AddressSpace, defs.Err_t) {
	pt, err := pagetable.New(as.alloc, as.phys)
	if err != 0 {
		return nil, err
	}
	if err := pt.CloneKernelHalf(as.ramSize); err != 0 {
		return nil, err
	}
	out := &AddressSpace{PT: pt, alloc: as.alloc, phys: as.phys, ramSize: as.ramSize}

	set, err := as.Set.CloneWithData(as.alloc, as.phys, pt)
	if err != 0 {
		return nil, err
	}
	out.Set = *set

	if as.Stack != nil {
		stack, err := cloneRegion(as.Stack, as.Stack.StartVA-uintptr(len(as.Stack.Frames))*config.PGSIZE, as.alloc, as.phys, pt)
		if err != 0 {
			return nil, err
		}
		out.Stack = stack
	}
	if as.Heap != nil {
		heap, err := cloneRegion(as.Heap, as.Heap.StartVA, as.alloc, as.phys, pt)
		if err != 0 {
			return nil, err
		}
		out.Heap = heap
	}
	return out, 0
}

// cloneRegion copies r's frames and maps the copies in pt from lowVA
// upward: the stack's lowest mapped page, or the heap's StartVA.
func cloneRegion(r *memset.MemMap, lowVA uintptr, alloc *mem.Allocator, phys mem.PhysMem, pt *pagetable.Table) (*memset.MemMap, defs.Err_t) {
	out := &memset.MemMap{StartVA: r.StartVA, Perm: r.Perm}
	for _, sf := range r.Frames {
		df, err := alloc.Alloc()
		if err != 0 {
			return nil, err
		}
		copy(phys.Bytes(df), phys.Bytes(sf))
		out.Frames = append(out.Frames, df)
	}
	va := lowVA
	flags := r.Perm.PTEFlags()
	for _, f := range out.Frames {
		if err := pt.Map(f.Addr(), va, flags); err != 0 {
			return nil, err
		}
		va += config.PGSIZE
	}
	return out, 0
}

// Reset implements execve's in-place address-space reset (§4.7): drops
// MemSet/stack/heap, keeps nothing from the old program, and returns a
// fresh AddressSpace the caller populates with the new ELF's segments.
func (as *AddressSpace) Reset() (*AddressSpace, defs.Err_t) {
	as.Release()
	pt, err := pagetable.New(as.alloc, as.phys)
	if err != 0 {
		return nil, err
	}
	if err := pt.CloneKernelHalf(as.ramSize); err != 0 {
		return nil, err
	}
	return &AddressSpace{PT: pt, alloc: as.alloc, phys: as.phys, ramSize: as.ramSize}, 0
}
