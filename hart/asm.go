package hart

import "rvkernel/trapframe"

// Wsatp writes the SATP CSR and executes sfence.vma, switching the active
// page table root. Implemented in asm_riscv64.s.
//
//go:noescape
func Wsatp(satp uint64)

// Rsatp reads the SATP CSR.
//
//go:noescape
func Rsatp() uint64

// SfenceVMA flushes the TLB for the current address space.
//
//go:noescape
func SfenceVMA()

// Wstvec installs the trap vector, pointed at Trapentry's machine code.
//
//go:noescape
func Wstvec(addr uintptr)

// IntrOn/IntrOff toggle sstatus.SIE, matching biscuit's runtime-level
// interrupt-enable hooks (referenced indirectly through runtime.CPUHint()
// style calls in vm/as.go).
//
//go:noescape
func IntrOn()

//go:noescape
func IntrOff()

// SetTimer arms the next supervisor-timer interrupt via the SBI
// set_timer call (an external collaborator per §6; hart only forwards the
// ecall, it does not implement SBI).
//
//go:noescape
func SetTimer(deadlineTicks uint64)

// Rtime reads the time CSR (wall-clock tick counter).
//
//go:noescape
func Rtime() uint64

// Entervm restores ctx into the hart's registers, switches SATP to satp
// with the required sfence.vma, and sret's to user mode. It never returns
// through the normal call stack; control re-enters the kernel only via the
// next trap, which Trapentry receives. This is original_source's
// "extern fn change_task(pte, stack)" boundary (task/mod.rs), expressed as
// (root frame, *Context) rather than (page-table base, raw stack pointer).
//
//go:noescape
func Entervm(ctx *trapframe.Context, satp uint64)

// Trapentry is the address installed in stvec. It is never called directly
// from Go; its symbol is referenced only so the linker keeps it and so
// boot code can take its address for Wstvec.
func Trapentry()
