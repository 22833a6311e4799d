// Command kernel is the entry point linked into the boot image: it builds
// the real hardware-backed *kernel.Kernel, installs the trap vector, and
// enters the first task. Every trap after that re-enters the scheduler
// through Trapentry/package trap rather than through this command's call
// stack (see run's doc comment). Grounded on biscuit's own main.go boot
// sequence (mem.Phys_init, then the scheduler loop) but restructured
// around this core's single entry/exit point through hart.Entervm rather
// than goroutines standing in for CPUs.
package main

import (
	"reflect"

	"rvkernel/config"
	"rvkernel/fs"
	"rvkernel/hart"
	"rvkernel/kernel"
	"rvkernel/klog"
	"rvkernel/mem"
)

// bootArgs is the fixed boot job list for this image (§4.13); a real build
// would read this from the bootloader's command line, an external
// collaborator this core does not implement (§1).
var bootArgs = []string{"/init"}

func main() {
	klog.Printf("rvkernel: booting on %s, %dMB RAM\n", config.Target, config.RamSize>>20)

	baseFrame := mem.Frame(config.KernBase / config.PGSIZE)
	nframes := int(config.RamSize / config.PGSIZE)
	k := kernel.New(baseFrame, nframes, mem.DirectMap{}, fs.NewMemTree())
	for _, a := range bootArgs {
		k.Queue.Push(a)
	}

	hart.Wstvec(reflect.ValueOf(hart.Trapentry).Pointer())
	hart.IntrOn()

	run(k)
}

// tickPeriod is the number of Rtime ticks between supervisor-timer
// interrupts; an SBI/QEMU platform constant external to this core (§1), so
// kept local to the boot command rather than in config.
const tickPeriod = 1_000_000

// run performs the first half of the trap-driven scheduling loop (§4.6/§5):
// pick a task (spawning the next boot job if nothing is ready yet) and
// enter it. On real hardware this call does not return — the next Go code
// to execute is Trapentry's save sequence, which hands scause/stval/ctx to
// package trap's dispatcher the same way RunOnce does here, and that
// dispatcher's own call back into this same pick-and-enter sequence is
// architecture boilerplate living beside Trapentry itself (hart/
// asm_riscv64.s already documents that body as omitted, not reproducible
// without hardware to verify it against). run exists so this command
// type-checks and so its one-shot behaviour is host-testable up to the
// point where control actually leaves Go.
func run(k *kernel.Kernel) {
	if !k.RunOnce(0, 0) {
		klog.Println("rvkernel: boot queue and ready queue both empty, halting")
		return
	}
	task := k.Sched.Current()
	if task == nil {
		task = k.Sched.Next()
	}
	if task == nil {
		return
	}
	hart.SetTimer(hart.Rtime() + tickPeriod)
	k.EnterUser(task)
}
