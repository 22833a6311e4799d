// Package elf parses ELF64 program headers, places PT_LOAD segments into
// an address space, and builds the argv/envp/auxv initial stack image
// (§4.8), grounded on original_source/kernel/src/elf/mod.rs's auxv type
// constants and get_data_size/get_ph_addr logic, reworked from xmas_elf's
// borrowed-buffer parser into a straight byte-slice reader the way
// biscuit's own loader (referenced but not retrievable from the pack)
// would sit next to addrspace.AddressSpace.
package elf

import (
	"encoding/binary"

	"rvkernel/addrspace"
	"rvkernel/defs"
	"rvkernel/mem"
	"rvkernel/memset"
	"rvkernel/util"
)

// Auxv type tags, from original_source/kernel/src/elf/mod.rs.
const (
	AT_NULL   = 0
	AT_PHDR   = 3
	AT_PHENT  = 4
	AT_PHNUM  = 5
	AT_PAGESZ = 6
	AT_BASE   = 7
	AT_ENTRY  = 9
	AT_UID    = 11
	AT_EUID   = 12
	AT_GID    = 13
	AT_EGID   = 14
	AT_HWCAP  = 16
	AT_CLKTCK = 17
	AT_RANDOM = 25
	AT_EXECFN = 31
)

const (
	ptLoad  = 1
	ehSize  = 64
	phEntSz = 56
)

// Header is the subset of an ELF64 file + program headers this loader
// needs.
type Header struct {
	Entry   uint64
	PhOff   uint64
	PhEntSz uint16
	PhNum   uint16
}

// ProgHeader is one PT_LOAD (or other) program header entry.
type ProgHeader struct {
	Type   uint32
	Flags  uint32
	Offset uint64
	Vaddr  uint64
	Filesz uint64
	Memsz  uint64
}

// ParseHeader reads the ELF64 file+program headers out of data.
func ParseHeader(data []byte) (Header, []ProgHeader, defs.Err_t) {
	if len(data) < ehSize {
		return Header{}, nil, -defs.ENOEXEC
	}
	if data[0] != 0x7f || data[1] != 'E' || data[2] != 'L' || data[3] != 'F' {
		return Header{}, nil, -defs.ENOEXEC
	}
	le := binary.LittleEndian
	h := Header{
		Entry:   le.Uint64(data[24:32]),
		PhOff:   le.Uint64(data[32:40]),
		PhEntSz: le.Uint16(data[54:56]),
		PhNum:   le.Uint16(data[56:58]),
	}
	phs := make([]ProgHeader, 0, h.PhNum)
	for i := 0; i < int(h.PhNum); i++ {
		off := h.PhOff + uint64(i)*uint64(h.PhEntSz)
		if off+phEntSz > uint64(len(data)) {
			return Header{}, nil, -defs.ENOEXEC
		}
		b := data[off : off+phEntSz]
		phs = append(phs, ProgHeader{
			Type:   le.Uint32(b[0:4]),
			Flags:  le.Uint32(b[4:8]),
			Offset: le.Uint64(b[8:16]),
			Vaddr:  le.Uint64(b[16:24]),
			Filesz: le.Uint64(b[32:40]),
			Memsz:  le.Uint64(b[40:48]),
		})
	}
	return h, phs, 0
}

// PhdrVA locates the in-memory address of the program header table, per
// original_source's get_ph_addr: prefer an explicit PT_PHDR segment,
// otherwise infer it from a PT_LOAD segment mapped at file offset 0.
func PhdrVA(h Header, phs []ProgHeader) uint64 {
	const ptPhdr = 6
	for _, ph := range phs {
		if ph.Type == ptPhdr {
			return ph.Vaddr
		}
	}
	for _, ph := range phs {
		if ph.Type == ptLoad && ph.Offset == 0 {
			return ph.Vaddr + h.PhOff
		}
	}
	return 0
}

const pgsize = 4096

func pages(n uint64) uint64 { return (n + pgsize - 1) / pgsize }

// Load places every PT_LOAD segment of data into as (§4.8): allocate
// ceil(memsz/4096) frames, copy filesz bytes from the file into the low
// end, zero the remainder, and push a MemMap with permission bits derived
// from the header's R/W/X flags.
func Load(as *addrspace.AddressSpace, alloc *mem.Allocator, phys mem.PhysMem, data []byte, phs []ProgHeader) defs.Err_t {
	for _, ph := range phs {
		if ph.Type != ptLoad || ph.Memsz == 0 {
			continue
		}
		npages := pages(ph.Memsz)
		frames := make([]mem.Frame, 0, npages)
		for i := uint64(0); i < npages; i++ {
			f, err := alloc.Alloc()
			if err != 0 {
				return err
			}
			frames = append(frames, f)
		}
		remaining := ph.Filesz
		srcOff := ph.Offset
		for _, f := range frames {
			dst := phys.Bytes(f)
			n := uint64(len(dst))
			if remaining < n {
				n = remaining
			}
			if n > 0 {
				if srcOff+n > uint64(len(data)) {
					return -defs.ENOEXEC
				}
				copy(dst[:n], data[srcOff:srcOff+n])
				srcOff += n
				remaining -= n
			}
			for i := n; i < uint64(len(dst)); i++ {
				dst[i] = 0
			}
		}
		perm := memset.Perm{
			R: ph.Flags&0x4 != 0,
			W: ph.Flags&0x2 != 0,
			X: ph.Flags&0x1 != 0,
		}
		base := util.Rounddown(uintptr(ph.Vaddr), pgsize)
		if err := as.PushELFSegment(base, frames, perm); err != 0 {
			return err
		}
	}
	return 0
}

// StackImage builds the initial user stack bytes (§4.8), from low
// addresses to high: argc, argv pointers, a null argv terminator, envp
// pointers, a null envp terminator, auxv pairs (AT_PHDR, AT_PHENT,
// AT_PHNUM, AT_ENTRY, AT_PAGESZ, AT_RANDOM, then AT_NULL), the argv
// strings, the envp strings, and the 16 random bytes AT_RANDOM points at,
// zero-padded to a multiple of 16 bytes. No platform string is written.
// The caller writes the returned buffer at stackTopVA-len(buf), which is
// also the initial, 16-byte-aligned sp.
func StackImage(argv, envp []string, entry, phdr uint64, phentsize, phnum int, stackTopVA uint64, random [16]byte) []byte {
	var strs []byte
	argvOff := make([]uint64, len(argv))
	envpOff := make([]uint64, len(envp))
	for i, s := range argv {
		argvOff[i] = uint64(len(strs))
		strs = append(strs, s...)
		strs = append(strs, 0)
	}
	for i, s := range envp {
		envpOff[i] = uint64(len(strs))
		strs = append(strs, s...)
		strs = append(strs, 0)
	}
	randOff := uint64(len(strs))
	strs = append(strs, random[:]...)

	type auxEnt struct{ tag, val uint64 }
	auxv := []auxEnt{
		{AT_PHDR, phdr},
		{AT_PHENT, uint64(phentsize)},
		{AT_PHNUM, uint64(phnum)},
		{AT_ENTRY, entry},
		{AT_PAGESZ, pgsize},
		{AT_RANDOM, 0}, // value filled in below, once strBase is known
		{AT_NULL, 0},
	}

	nptrs := 1 + len(argv) + 1 + len(envp) + 1 + len(auxv)*2
	ptrArea := nptrs * 8

	total := ptrArea + len(strs)
	total = int(util.Roundup(uintptr(total), 16))
	buf := make([]byte, total)

	strBase := stackTopVA - uint64(total) + uint64(ptrArea)
	le := binary.LittleEndian
	w := 0
	put := func(v uint64) { le.PutUint64(buf[w:w+8], v); w += 8 }

	put(uint64(len(argv)))
	for _, off := range argvOff {
		put(strBase + off)
	}
	put(0)
	for _, off := range envpOff {
		put(strBase + off)
	}
	put(0)
	for _, a := range auxv {
		put(a.tag)
		if a.tag == AT_RANDOM {
			put(strBase + randOff)
		} else {
			put(a.val)
		}
	}
	copy(buf[ptrArea:], strs)
	return buf
}
