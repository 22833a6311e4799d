package mem

import (
	"unsafe"

	"rvkernel/config"
)

// PhysMem lets the page-table manager and the user-pointer translation
// layer turn a Frame into addressable kernel memory. Biscuit needs a
// separate "direct map" VA window for this (mem/dmap.go's Vdirect) because
// x86-64 Biscuit's kernel is not identity-mapped over all of physical RAM.
// This core's Sv39 layout identity-maps the kernel half (everything
// >= 0x8000_0000, i.e. all of RAM) at VA=PA (§6), so a frame's physical
// address is already a valid kernel pointer once paging is live — no
// separate window is needed. DirectMap below is that one-line
// simplification; PhysMem is kept as an interface so host tests run
// without any real memory by substituting FakePhysMem.
type PhysMem interface {
	// Bytes returns a PGSIZE-length slice backing frame f.
	Bytes(f Frame) []byte
	// Table returns frame f viewed as 512 page-table entries.
	Table(f Frame) *[512]uint64
}

// DirectMap is the real, hardware-backed PhysMem: frame f's bytes live at
// the identity-mapped kernel virtual address f.Addr().
type DirectMap struct{}

func (DirectMap) Bytes(f Frame) []byte {
	p := (*[config.PGSIZE]byte)(unsafe.Pointer(f.Addr()))
	return p[:]
}

func (DirectMap) Table(f Frame) *[512]uint64 {
	return (*[512]uint64)(unsafe.Pointer(f.Addr()))
}

// FakePhysMem is a host-testable PhysMem backed by Go-heap pages, used by
// every _test.go file in this core that needs to exercise the page-table
// walker or user-pointer translation without real hardware, matching the
// design note that portable code sits above the one assembly-only
// boundary (§9).
type FakePhysMem struct {
	pages map[Frame]*[config.PGSIZE]byte
}

func NewFakePhysMem() *FakePhysMem {
	return &FakePhysMem{pages: make(map[Frame]*[config.PGSIZE]byte)}
}

func (f *FakePhysMem) page(fr Frame) *[config.PGSIZE]byte {
	p, ok := f.pages[fr]
	if !ok {
		p = &[config.PGSIZE]byte{}
		f.pages[fr] = p
	}
	return p
}

func (f *FakePhysMem) Bytes(fr Frame) []byte {
	return f.page(fr)[:]
}

func (f *FakePhysMem) Table(fr Frame) *[512]uint64 {
	return (*[512]uint64)(unsafe.Pointer(f.page(fr)))
}
