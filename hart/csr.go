// Package hart isolates the RISC-V-specific, assembly-backed boundary the
// rest of the kernel never touches directly: CSR access, SATP switches,
// sfence.vma, and the two functions the design notes call out as
// unavoidably assembly (enter_user / kernel_trap_entry, here Entervm and
// Trapentry). Every other package in this core is portable Go, exactly as
// §9's design note prescribes.
//
// The bit layouts below are the same RISC-V privileged-ISA tables that
// golang.org/x/arch/riscv64/riscv64asm formalizes for instruction decoding;
// this core does not need a decoder, only the constants, so they are
// hand-written here rather than importing that package (see DESIGN.md).
package hart

// SATP mode field, Sv39.
const SatpModeSv39 = uint64(8) << 60

// sstatus bits this kernel inspects or sets.
const (
	SstatusSPP = 1 << 8  // previous privilege mode
	SstatusSPIE = 1 << 5 // previous interrupt-enable
	SstatusSIE  = 1 << 1 // supervisor interrupt enable
	SstatusSUM  = 1 << 18 // permit S-mode access to U pages
)

// scause values this kernel's trap dispatcher switches on. The interrupt
// bit (bit 63) is tested and masked off by trap.Dispatch.
const (
	CauseInterruptBit = uint64(1) << 63

	ExcInstrMisaligned = 0
	ExcInstrFault      = 1
	ExcIllegalInstr    = 2
	ExcBreakpoint      = 3
	ExcLoadMisaligned  = 4
	ExcLoadFault       = 5
	ExcStoreMisaligned = 6
	ExcStoreFault      = 7
	ExcUserEnvCall     = 8
	ExcInstrPageFault  = 12
	ExcLoadPageFault   = 13
	ExcStorePageFault  = 15

	IntSupervisorTimer = 5
)

// PTE flag bits, Sv39 leaf and non-leaf entries.
const (
	PteV = 1 << 0
	PteR = 1 << 1
	PteW = 1 << 2
	PteX = 1 << 3
	PteU = 1 << 4
	PteG = 1 << 5
	PteA = 1 << 6
	PteD = 1 << 7

	PtePPNShift = 10
)

// BuildSatp packs the Sv39 mode bit and a root frame number into the value
// Wsatp expects.
func BuildSatp(rootFrame uint64) uint64 {
	return SatpModeSv39 | rootFrame
}
