package syscall

import (
	"rvkernel/fd"
	"rvkernel/proc"
	"rvkernel/sched"
)

// sysSocket implements a trivial socket(2) stub (§4.12's IPC stub / §1's
// "no real network stack" Non-goal): it hands back one end of an
// in-memory FIFO pair, with the peer end left unattached. This is enough
// for programs that only use AF_UNIX socketpair-style self-talk through
// the fd returned; connect/bind/listen/accept are no-ops elsewhere in
// dispatch.go.
func (d *Dispatcher) sysSocket(p *proc.Process) (int64, sched.Disposition) {
	a, _ := fd.NewSocketPair()
	fdno := p.Fds.Alloc(&fd.FD{Fops: a, Perms: fd.FD_READ | fd.FD_WRITE})
	return int64(fdno), sched.Continue
}
