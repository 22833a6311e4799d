package syscall

import (
	"rvkernel/proc"
	"rvkernel/sched"
)

// utsnameFieldLen matches Linux's struct utsname: six 65-byte
// NUL-padded fields (sysname, nodename, release, version, machine,
// domainname).
const utsnameFieldLen = 65

func utsnameField(b []byte, s string) {
	n := copy(b, s)
	for i := n; i < len(b); i++ {
		b[i] = 0
	}
}

// sysUname implements uname(2) (§4.12's info category), reporting a
// fixed identity musl's startup code is content with: it only checks
// that the call succeeds and reads `machine` for some diagnostics.
func (d *Dispatcher) sysUname(task *proc.Task, bufVA uintptr) (int64, sched.Disposition) {
	var buf [utsnameFieldLen * 6]byte
	utsnameField(buf[0*utsnameFieldLen:1*utsnameFieldLen], "Linux")
	utsnameField(buf[1*utsnameFieldLen:2*utsnameFieldLen], "rvkernel")
	utsnameField(buf[2*utsnameFieldLen:3*utsnameFieldLen], "5.15.0")
	utsnameField(buf[3*utsnameFieldLen:4*utsnameFieldLen], "#1 SMP")
	utsnameField(buf[4*utsnameFieldLen:5*utsnameFieldLen], "riscv64")
	utsnameField(buf[5*utsnameFieldLen:6*utsnameFieldLen], "")
	if _, err := task.Proc.AS.WriteBytes(bufVA, buf[:]); err != 0 {
		return int64(err), sched.Continue
	}
	return 0, sched.Continue
}
