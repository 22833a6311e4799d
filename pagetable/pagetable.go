// Package pagetable implements the Sv39 three-level page-table manager
// (§4.2). It replaces biscuit's x86-64 4-level pml4 walker (vm/as.go's
// Pgfault/Page_insert machinery, mem/dmap.go's VREC/VDIRECT/pgbits slot
// math) with a from-scratch RISC-V Sv39 walker: the index math, leaf flag
// set {V,R,W,X,U,G,A,D}, and non-leaf-vs-leaf PTE distinction are all
// different from x86-64's page tables, but the shape of the operations —
// map/map_range/unmap/translate plus a kernel-half identity clone done once
// per new root — is the one the teacher's vm package exposes.
package pagetable

import (
	"rvkernel/config"
	"rvkernel/defs"
	"rvkernel/hart"
	"rvkernel/mem"
)

// Table owns a root frame and the allocator/physical-memory view needed to
// create and walk page-table levels.
type Table struct {
	Root  mem.Frame
	alloc *mem.Allocator
	phys  mem.PhysMem
}

// New allocates a fresh root table (all zero, i.e. all-invalid entries).
func New(alloc *mem.Allocator, phys mem.PhysMem) (*Table, defs.Err_t) {
	root, err := alloc.Alloc()
	if err != 0 {
		return nil, err
	}
	return &Table{Root: root, alloc: alloc, phys: phys}, 0
}

// vpn extracts the level-l (0=lowest) 9-bit virtual page number field.
func vpn(va uintptr, l int) uint64 {
	return uint64(va>>(12+9*l)) & 0x1ff
}

// pteFrame extracts the physical frame number a non-leaf or leaf PTE
// points at.
func pteFrame(pte uint64) mem.Frame {
	return mem.Frame(pte >> hart.PtePPNShift)
}

func mkPTE(f mem.Frame, flags uint64) uint64 {
	return uint64(f)<<hart.PtePPNShift | flags
}

// walk returns the level-0 (leaf) table containing va's PTE, allocating
// intervening level-2 and level-1 tables (V-only, per §4.2) as needed when
// alloc is true.
func (t *Table) walk(va uintptr, alloc bool) (*[512]uint64, int, defs.Err_t) {
	frame := t.Root
	for level := 2; level > 0; level-- {
		tbl := t.phys.Table(frame)
		idx := vpn(va, level)
		pte := tbl[idx]
		if pte&hart.PteV == 0 {
			if !alloc {
				return nil, 0, -defs.EFAULT
			}
			nf, err := t.alloc.Alloc()
			if err != 0 {
				return nil, 0, err
			}
			tbl[idx] = mkPTE(nf, hart.PteV)
			frame = nf
		} else if pte&(hart.PteR|hart.PteW|hart.PteX) != 0 {
			// a leaf exists where an intermediate table was expected
			return nil, 0, -defs.EINVAL
		} else {
			frame = pteFrame(pte)
		}
	}
	return t.phys.Table(frame), int(vpn(va, 0)), 0
}

// Map installs a single PGSIZE leaf mapping va -> pa with the given leaf
// flags (which must include at least one of R/W/X; V is added
// automatically). Fails with EEXIST if a valid leaf already occupies va,
// matching §4.2 ("Fails if a conflicting valid leaf already exists").
func (t *Table) Map(pa uintptr, va uintptr, flags uint64) defs.Err_t {
	tbl, idx, err := t.walk(va, true)
	if err != 0 {
		return err
	}
	if tbl[idx]&hart.PteV != 0 {
		return -defs.EEXIST
	}
	frame := mem.Frame(pa / config.PGSIZE)
	tbl[idx] = mkPTE(frame, flags|hart.PteV)
	hart.SfenceVMA()
	return 0
}

// MapRange maps [va, va+len) to a contiguous run of physical addresses
// starting at pa, one PGSIZE page at a time.
func (t *Table) MapRange(pa, va uintptr, length int, flags uint64) defs.Err_t {
	for off := 0; off < length; off += config.PGSIZE {
		if err := t.Map(pa+uintptr(off), va+uintptr(off), flags); err != 0 {
			return err
		}
	}
	return 0
}

// Unmap clears the leaf at va. Intermediate tables are not reclaimed
// (§4.2: "intermediate tables are not reclaimed").
func (t *Table) Unmap(va uintptr) defs.Err_t {
	tbl, idx, err := t.walk(va, false)
	if err != 0 {
		return err
	}
	if tbl[idx]&hart.PteV == 0 {
		return -defs.EFAULT
	}
	tbl[idx] = 0
	hart.SfenceVMA()
	return 0
}

// Translate walks the table and returns the physical address for va,
// preserving the page offset, or ok=false if no valid leaf covers it.
func (t *Table) Translate(va uintptr) (pa uintptr, flags uint64, ok bool) {
	tbl, idx, err := t.walk(va, false)
	if err != 0 {
		return 0, 0, false
	}
	pte := tbl[idx]
	if pte&hart.PteV == 0 {
		return 0, 0, false
	}
	base := pteFrame(pte).Addr()
	off := va & (config.PGSIZE - 1)
	return base + off, pte & 0xff, true
}

// CloneKernelHalf identity-maps [kernBase, kernBase+ramSize) into this
// table's root, so every process's address space reaches the kernel at the
// same VA=PA range (§4.2, §6). Called once when a fresh root is created for
// a new process or task; the mapping uses G (global) so it is not flushed
// on address-space switches covering the same range.
func (t *Table) CloneKernelHalf(ramSize uintptr) defs.Err_t {
	const flags = hart.PteR | hart.PteW | hart.PteX | hart.PteG | hart.PteA | hart.PteD
	for off := uintptr(0); off < ramSize; off += config.PGSIZE {
		pa := uintptr(config.KernBase) + off
		if err := t.Map(pa, pa, flags); err != 0 && err != -defs.EEXIST {
			return err
		}
	}
	return 0
}

// Satp returns the SATP CSR value selecting this table as Sv39 root.
func (t *Table) Satp() uint64 {
	return hart.BuildSatp(uint64(t.Root))
}
