//go:build sdboard

// Embedded SD-card-backed board variant: same core, smaller RAM, and the
// block device behind the FAT32 reader is an SD controller instead of
// VirtIO (both are external collaborators per §1/§6; only the RAM size and
// target name differ for the in-core code).
package config

// PGSIZE is the page and frame granularity used everywhere in this kernel.
const PGSIZE = 4096

// PGSHIFT is log2(PGSIZE).
const PGSHIFT = 12

const (
	KernBase   = 0x8000_0000
	VirtioMMIO = 0x1000_1000 // unused on sdboard; retained so shared code compiles
)

const (
	UserElfBase  = 0x0000_1000
	MmapHintBase = 0xD000_0000
	MmapHintEnd  = 0xEFFF_FFFF
	StackLoBound = 0xEF00_0000
	StackHiBound = 0xF000_0000
	StackTop     = 0xF000_1000
	HeapBase     = 0xF001_0000
	// ScratchPageVA: the signal-delivery scratch page, as on the default target.
	ScratchPageVA = 0xF000_F000
)

const TickInterval = 5
const MaxIovecs = 10
const MaxSignal = 64
const AtFdcwd = -100

// RamSize is smaller on the embedded target: 64 MiB.
const RamSize = 64 << 20

const Target = "sdboard"
