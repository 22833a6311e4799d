// Package memset implements MemMap and MemSet (§4.3, §3): the owned
// anonymous region and the ordered, non-overlapping collection of them that
// makes up a process's user-mappable address space. Grounded on biscuit's
// vm.Vmadd_anon/Vmadd_file region-installation constructors and
// Vmregion_t's role in vm/as.go's Sys_pgfault, but stripped of the COW
// machinery (PTE_COW/PTE_WASCOW, refcounted Page_i frames) those functions
// layer on top: this kernel's fork deep-copies (§4.7), so a MemMap always
// has exactly one owner and no fault-time copy decision is needed.
package memset

import (
	"rvkernel/defs"
	"rvkernel/hart"
	"rvkernel/mem"
	"rvkernel/pagetable"
	"rvkernel/util"
)

// Perm is the permission set a MemMap is installed with, independent of the
// PTE flag encoding (kept separate so memset does not need to import hart
// for anything but translating Perm -> PTE bits at install time).
type Perm struct {
	R, W, X bool
}

// PTEFlags converts the permission set to Sv39 leaf PTE bits.
func (p Perm) PTEFlags() uint64 {
	var f uint64 = hart.PteU | hart.PteA | hart.PteD
	if p.R {
		f |= hart.PteR
	}
	if p.W {
		f |= hart.PteW
	}
	if p.X {
		f |= hart.PteX
	}
	return f
}

// MemMap is a contiguous anonymous region: {start_frame, start_page,
// page_count, permissions} per §3. It exclusively owns Frames.
type MemMap struct {
	StartVA uintptr
	Frames  []mem.Frame // one entry per page, in VA order; exclusively owned
	Perm    Perm
}

func (m *MemMap) EndVA() uintptr {
	return m.StartVA + uintptr(len(m.Frames))*pageSize
}

const pageSize = 4096

// MemSet is the ordered collection of MemMaps belonging to one process
// (§3's invariant: ranges are non-overlapping).
type MemSet struct {
	Regions []*MemMap
}

// Push installs region into the set and mirrors it into pt with matching
// permissions, maintaining §3's invariant that every installed MemMap is
// also installed in the page table.
func (s *MemSet) Push(region *MemMap, pt *pagetable.Table) defs.Err_t {
	for _, r := range s.Regions {
		if overlaps(r, region) {
			return -defs.EINVAL
		}
	}
	flags := region.Perm.PTEFlags()
	for i, f := range region.Frames {
		va := region.StartVA + uintptr(i)*pageSize
		if err := pt.Map(f.Addr(), va, flags); err != 0 {
			return err
		}
	}
	s.Regions = append(s.Regions, region)
	return 0
}

func overlaps(a, b *MemMap) bool {
	return a.StartVA < b.EndVA() && b.StartVA < a.EndVA()
}

// Lookup returns the region containing va, if any.
func (s *MemSet) Lookup(va uintptr) *MemMap {
	for _, r := range s.Regions {
		if va >= r.StartVA && va < r.EndVA() {
			return r
		}
	}
	return nil
}

// NextHint returns a default VA for a new anonymous mapping: the end of
// the highest-addressed region currently installed, or defaultBase if
// that is higher, per §4.3
// ("The last mapped address is used to pick a default hint for anonymous
// mmap").
func (s *MemSet) NextHint(defaultBase uintptr) uintptr {
	hi := defaultBase
	for _, r := range s.Regions {
		if r.EndVA() > hi {
			hi = r.EndVA()
		}
	}
	return hi
}

// CloneWithData implements fork's deep-copy path (§4.7, §4.3's
// clone_with_data): allocate fresh frames of the same count as each source
// region, byte-copy the source contents, and install the copies into the
// child's page table. Returns a brand new MemSet; the source is untouched.
func (s *MemSet) CloneWithData(alloc *mem.Allocator, phys mem.PhysMem, childPT *pagetable.Table) (*MemSet, defs.Err_t) {
	out := &MemSet{}
	for _, r := range s.Regions {
		nr := &MemMap{StartVA: r.StartVA, Perm: r.Perm}
		for _, sf := range r.Frames {
			df, err := alloc.Alloc()
			if err != 0 {
				return nil, err
			}
			copy(phys.Bytes(df), phys.Bytes(sf))
			nr.Frames = append(nr.Frames, df)
		}
		if err := out.Push(nr, childPT); err != 0 {
			return nil, err
		}
	}
	return out, 0
}

// Unmap clears every mapped page in [addr, addr+length) from pt, frees the
// owning frames back to alloc, and removes, shrinks, or splits whichever
// MemMaps overlap the range so the set's non-overlap invariant still holds
// afterward (§4.12's munmap). Unmapping a range that covers no mapped page
// is not an error, matching munmap(2)'s own leniency.
func (s *MemSet) Unmap(alloc *mem.Allocator, pt *pagetable.Table, addr, length uintptr) defs.Err_t {
	if length == 0 {
		return 0
	}
	start := util.Rounddown(addr, pageSize)
	end := util.Roundup(addr+length, pageSize)

	var kept []*MemMap
	for _, r := range s.Regions {
		if r.EndVA() <= start || r.StartVA >= end {
			kept = append(kept, r)
			continue
		}
		for i, f := range r.Frames {
			va := r.StartVA + uintptr(i)*pageSize
			if va < start || va >= end {
				continue
			}
			if err := pt.Unmap(va); err != 0 && err != -defs.EFAULT {
				return err
			}
			alloc.Free(f)
		}
		if before := r.sub(r.StartVA, start); before != nil {
			kept = append(kept, before)
		}
		if after := r.sub(end, r.EndVA()); after != nil {
			kept = append(kept, after)
		}
	}
	s.Regions = kept
	return 0
}

// sub returns the portion of r spanning [lo, hi), or nil if that portion is
// empty, used by Unmap to keep the unremoved ends of a partially-unmapped
// region as their own MemMap.
func (r *MemMap) sub(lo, hi uintptr) *MemMap {
	lo = util.Rounddown(max(lo, r.StartVA), pageSize)
	hi = util.Rounddown(min(hi, r.EndVA()), pageSize)
	if hi <= lo {
		return nil
	}
	startIdx := (lo - r.StartVA) / pageSize
	endIdx := (hi - r.StartVA) / pageSize
	return &MemMap{StartVA: lo, Frames: r.Frames[startIdx:endIdx], Perm: r.Perm}
}

// Release frees every frame owned by every region in the set, used by
// process exit and by execve resetting the address space in place (§4.7).
func (s *MemSet) Release(alloc *mem.Allocator) {
	for _, r := range s.Regions {
		for _, f := range r.Frames {
			alloc.Free(f)
		}
	}
	s.Regions = nil
}
