//go:build !sdboard

// Package config holds the compile-time constants that size and place the
// kernel and its user address spaces. Biscuit keeps equivalent knobs as bare
// package-level constants (mem.PGSIZE and friends); this core groups them in
// one place per target (qemuvirt, sdboard) so the build-tag split stays in a
// single file instead of scattered magic numbers.
package config

// RamSize is the amount of physical RAM the frame allocator manages on the
// default target, QEMU's virt machine with -m 128M.
const RamSize = 128 << 20

// Target names the active board for diagnostics.
const Target = "qemuvirt"

// PGSIZE is the page and frame granularity used everywhere in this kernel.
const PGSIZE = 4096

// PGSHIFT is log2(PGSIZE).
const PGSHIFT = 12

// Physical memory layout (QEMU virt machine, hart 0 only per the single-hart
// non-goal).
const (
	KernBase  = 0x8000_0000 // firmware hands control here
	VirtioMMIO = 0x1000_1000
)

// User address-space layout, fixed across every process (no ASLR).
const (
	UserElfBase   = 0x0000_1000
	MmapHintBase  = 0xD000_0000
	MmapHintEnd   = 0xEFFF_FFFF
	StackLoBound  = 0xEF00_0000
	StackHiBound  = 0xF000_0000
	StackTop      = 0xF000_1000
	HeapBase      = 0xF001_0000
	// ScratchPageVA is the one reserved page below HeapBase used to stash
	// a trapframe.Context during signal delivery (§4.11, §4.4's "heap's
	// reserved temp page").
	ScratchPageVA = 0xF000_F000
)

// TickInterval is the number of timer ticks between forced preemptions
// (§4.6 of the spec: "each INTERVAL ticks the timer handler sets the front
// task's status to READY and rotates the queue").
const TickInterval = 5

// MaxIovecs bounds the number of iovec entries read(v)/writev(v) will
// marshal per call, matching the teacher's vm.Useriovec_t cap (biscuit
// caps this at 10 in vm/userbuf.go's Iov_init).
const MaxIovecs = 10

// MaxSignal is the highest signal number this kernel models (64-bit SigSet).
const MaxSignal = 64

// AtFdcwd is the sentinel fd meaning "resolve relative to the calling
// process's current working directory" used by the *at family of syscalls.
const AtFdcwd = -100
