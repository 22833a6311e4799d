package syscall

import (
	"rvkernel/defs"
	"rvkernel/fd"
	"rvkernel/proc"
	"rvkernel/sched"
)

func (d *Dispatcher) sysDup(p *proc.Process, old int) (int64, sched.Disposition) {
	f := p.Fds.Get(old)
	if f == nil {
		return -int64(defs.EBADF), sched.Continue
	}
	nf, err := fd.Copyfd(f)
	if err != 0 {
		return int64(err), sched.Continue
	}
	return int64(p.Fds.Alloc(nf)), sched.Continue
}

func (d *Dispatcher) sysDup3(p *proc.Process, old, newfd int) (int64, sched.Disposition) {
	f := p.Fds.Get(old)
	if f == nil {
		return -int64(defs.EBADF), sched.Continue
	}
	nf, err := fd.Copyfd(f)
	if err != 0 {
		return int64(err), sched.Continue
	}
	if err := p.Fds.AllocAt(newfd, nf); err != 0 {
		return int64(err), sched.Continue
	}
	return int64(newfd), sched.Continue
}

func (d *Dispatcher) sysPipe2(task *proc.Task, fdsVA uintptr) (int64, sched.Disposition) {
	p := task.Proc
	r, w := fd.NewPipe()
	rfd := p.Fds.Alloc(&fd.FD{Fops: r, Perms: fd.FD_READ})
	wfd := p.Fds.Alloc(&fd.FD{Fops: w, Perms: fd.FD_WRITE})
	var buf [8]byte
	buf[0] = byte(rfd)
	buf[4] = byte(wfd)
	if _, err := p.AS.WriteBytes(fdsVA, buf[:]); err != 0 {
		return int64(err), sched.Continue
	}
	return 0, sched.Continue
}

func (d *Dispatcher) sysRead(task *proc.Task, fdno int, bufVA uintptr, count int) (int64, sched.Disposition) {
	p := task.Proc
	f, err := fdFile(p, fdno)
	if err != 0 {
		return int64(err), sched.Continue
	}
	tmp := make([]byte, count)
	n, rerr := f.Read(tmp)
	if rerr != 0 {
		return int64(rerr), sched.Continue
	}
	if n > 0 {
		if _, werr := p.AS.WriteBytes(bufVA, tmp[:n]); werr != 0 {
			return int64(werr), sched.Continue
		}
	}
	return int64(n), sched.Continue
}

func (d *Dispatcher) sysWrite(task *proc.Task, fdno int, bufVA uintptr, count int) (int64, sched.Disposition) {
	p := task.Proc
	f, err := fdFile(p, fdno)
	if err != 0 {
		return int64(err), sched.Continue
	}
	tmp := make([]byte, count)
	if _, rerr := p.AS.ReadBytes(bufVA, tmp); rerr != 0 {
		return int64(rerr), sched.Continue
	}
	n, werr := f.Write(tmp)
	if werr != 0 {
		return int64(werr), sched.Continue
	}
	return int64(n), sched.Continue
}

func (d *Dispatcher) sysPread(task *proc.Task, fdno int, bufVA uintptr, count int, off int64) (int64, sched.Disposition) {
	p := task.Proc
	f, err := fdFile(p, fdno)
	if err != 0 {
		return int64(err), sched.Continue
	}
	tmp := make([]byte, count)
	n, rerr := f.ReadAt(off, tmp)
	if rerr != 0 {
		return int64(rerr), sched.Continue
	}
	if n > 0 {
		if _, werr := p.AS.WriteBytes(bufVA, tmp[:n]); werr != 0 {
			return int64(werr), sched.Continue
		}
	}
	return int64(n), sched.Continue
}

const iovecSize = 16 // {base uint64, len uint64}

func (d *Dispatcher) sysReadv(task *proc.Task, fdno int, iovVA uintptr, iovcnt int) (int64, sched.Disposition) {
	p := task.Proc
	f, err := fdFile(p, fdno)
	if err != 0 {
		return int64(err), sched.Continue
	}
	total := int64(0)
	for i := 0; i < iovcnt; i++ {
		base, length, err := readIovec(p, iovVA+uintptr(i*iovecSize))
		if err != 0 {
			return int64(err), sched.Continue
		}
		tmp := make([]byte, length)
		n, rerr := f.Read(tmp)
		if rerr != 0 {
			return int64(rerr), sched.Continue
		}
		if n > 0 {
			if _, werr := p.AS.WriteBytes(uintptr(base), tmp[:n]); werr != 0 {
				return int64(werr), sched.Continue
			}
		}
		total += int64(n)
		if n < int(length) {
			break
		}
	}
	return total, sched.Continue
}

func (d *Dispatcher) sysWritev(task *proc.Task, fdno int, iovVA uintptr, iovcnt int) (int64, sched.Disposition) {
	p := task.Proc
	f, err := fdFile(p, fdno)
	if err != 0 {
		return int64(err), sched.Continue
	}
	total := int64(0)
	for i := 0; i < iovcnt; i++ {
		base, length, err := readIovec(p, iovVA+uintptr(i*iovecSize))
		if err != 0 {
			return int64(err), sched.Continue
		}
		tmp := make([]byte, length)
		if _, rerr := p.AS.ReadBytes(uintptr(base), tmp); rerr != 0 {
			return int64(rerr), sched.Continue
		}
		n, werr := f.Write(tmp)
		if werr != 0 {
			return int64(werr), sched.Continue
		}
		total += int64(n)
	}
	return total, sched.Continue
}

func readIovec(p *proc.Process, va uintptr) (base uint64, length uint64, err defs.Err_t) {
	base, err = p.AS.ReadU64(va)
	if err != 0 {
		return 0, 0, err
	}
	length, err = p.AS.ReadU64(va + 8)
	return base, length, err
}

func (d *Dispatcher) sysLseek(p *proc.Process, fdno int, off int64, whence int) (int64, sched.Disposition) {
	f, err := fdFile(p, fdno)
	if err != 0 {
		return int64(err), sched.Continue
	}
	seeker, ok := f.(interface {
		Seek(int64, int) (int64, defs.Err_t)
	})
	if !ok {
		return -int64(defs.ESPIPE), sched.Continue
	}
	n, serr := seeker.Seek(off, whence)
	if serr != 0 {
		return int64(serr), sched.Continue
	}
	return n, sched.Continue
}

func (d *Dispatcher) sysFstat(task *proc.Task, fdno int, statVA uintptr) (int64, sched.Disposition) {
	p := task.Proc
	f, err := fdFile(p, fdno)
	if err != 0 {
		return int64(err), sched.Continue
	}
	size, _ := f.GetSize()
	st := fstatFor(size)
	if _, werr := p.AS.WriteBytes(statVA, st.Bytes()); werr != 0 {
		return int64(werr), sched.Continue
	}
	return 0, sched.Continue
}
