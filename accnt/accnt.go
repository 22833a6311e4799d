// Package accnt tracks per-process CPU time for times(2) and getrusage(2).
// Ported closely from biscuit's accnt package (accnt.go), which already
// matches this spec's needs almost exactly: nanosecond counters for user
// and system time, serialized into a rusage-shaped byte buffer.
package accnt

import (
	"sync"
	"time"

	"rvkernel/util"
)

// Accnt tracks nanoseconds of user and system time for one process.
type Accnt struct {
	mu      sync.Mutex
	Userns  int64
	Sysns   int64
}

// Now returns the current monotonic time, used as the basis for Utadd's
// elapsed-time computation at the call sites in the scheduler and syscall
// dispatch.
func Now() time.Time { return time.Now() }

// Utadd records dur nanoseconds of user-mode time.
func (a *Accnt) Utadd(dur time.Duration) {
	a.mu.Lock()
	a.Userns += int64(dur)
	a.mu.Unlock()
}

// Systadd records dur nanoseconds of system (kernel) time.
func (a *Accnt) Systadd(dur time.Duration) {
	a.mu.Lock()
	a.Sysns += int64(dur)
	a.mu.Unlock()
}

// Add merges other's counters into a, used when a process reaps a zombie
// child's accounting into its own (wait4's rusage aggregation).
func (a *Accnt) Add(other *Accnt) {
	other.mu.Lock()
	u, s := other.Userns, other.Sysns
	other.mu.Unlock()
	a.mu.Lock()
	a.Userns += u
	a.Sysns += s
	a.mu.Unlock()
}

// Fetch returns a consistent snapshot of the counters.
func (a *Accnt) Fetch() (userns, sysns int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Userns, a.Sysns
}

// ToRusage serializes {user timeval, sys timeval} the way getrusage(2)'s
// ru_utime/ru_stime expect: two 16-byte {sec, usec} pairs.
func (a *Accnt) ToRusage() []byte {
	userns, sysns := a.Fetch()
	buf := make([]byte, 32)
	writeTimeval(buf[0:16], userns)
	writeTimeval(buf[16:32], sysns)
	return buf
}

func writeTimeval(b []byte, ns int64) {
	sec := ns / int64(time.Second)
	usec := (ns % int64(time.Second)) / int64(time.Microsecond)
	util.Writen(b, 8, 0, int(sec))
	util.Writen(b, 8, 8, int(usec))
}

// ToTms serializes {utime, stime, cutime, cstime} in clock ticks (100Hz, the
// conventional Linux CLK_TCK) for times(2).
func ToTms(self, children *Accnt) []byte {
	const clkTck = 100
	su, ss := self.Fetch()
	cu, cs := int64(0), int64(0)
	if children != nil {
		cu, cs = children.Fetch()
	}
	buf := make([]byte, 32)
	util.Writen(buf, 8, 0, int(su*clkTck/int64(time.Second)))
	util.Writen(buf, 8, 8, int(ss*clkTck/int64(time.Second)))
	util.Writen(buf, 8, 16, int(cu*clkTck/int64(time.Second)))
	util.Writen(buf, 8, 24, int(cs*clkTck/int64(time.Second)))
	return buf
}
