package syscall

import (
	"rvkernel/defs"
	"rvkernel/fd"
	"rvkernel/fs"
	"rvkernel/proc"
	"rvkernel/sched"
	"rvkernel/stat"
	"rvkernel/util"
)

const maxPathLen = 256

// readPath reads a NUL-terminated path string out of the caller's address
// space, the same 256-byte ceiling execve's path argument uses
// (procops.go).
func readPath(task *proc.Task, pathVA uintptr) (string, defs.Err_t) {
	return task.Proc.AS.ReadString(pathVA, maxPathLen)
}

// sysGetcwd implements getcwd(2) with a fixed answer: every process's
// working directory is "/", since the FAT32 reader that would track a
// real one is an external collaborator this core never implements (§1).
func (d *Dispatcher) sysGetcwd(task *proc.Task, bufVA uintptr, size int) (int64, sched.Disposition) {
	const cwd = "/\x00"
	if size < len(cwd) {
		return -int64(defs.ERANGE), sched.Continue
	}
	if _, err := task.Proc.AS.WriteBytes(bufVA, []byte(cwd)); err != 0 {
		return int64(err), sched.Continue
	}
	return int64(bufVA), sched.Continue
}

// sysOpenat implements the openat(2) subset this core supports (§4.12):
// dirfd is ignored, since only absolute flat paths under the tree's root
// are resolvable, matching fs.MemTree's own "no intermediate directories"
// limitation. O_CREAT creates a fresh empty regular file; O_DIRECTORY (or
// opening a path that is already a directory) returns a listable fd.Dir
// for getdents64.
func (d *Dispatcher) sysOpenat(task *proc.Task, pathVA uintptr, flags int) (int64, sched.Disposition) {
	if d.Tree == nil {
		return -int64(defs.ENOENT), sched.Continue
	}
	path, perr := readPath(task, pathVA)
	if perr != 0 {
		return int64(perr), sched.Continue
	}

	ino, err := d.Tree.Lookup(path)
	if err != 0 {
		if err != -defs.ENOENT || flags&defs.O_CREAT == 0 {
			return int64(err), sched.Continue
		}
		ino, err = d.Tree.Create(path)
		if err != 0 {
			return int64(err), sched.Continue
		}
	} else if flags&defs.O_CREAT != 0 && flags&defs.O_EXCL != 0 {
		return -int64(defs.EEXIST), sched.Continue
	}

	var f fd.File
	perms := fd.FD_READ
	switch {
	case ino.Kind == fs.KindDir || flags&defs.O_DIRECTORY != 0:
		if ino.Kind != fs.KindDir {
			return -int64(defs.ENOTDIR), sched.Continue
		}
		children, rderr := d.Tree.ReadDir(path)
		if rderr != 0 {
			return int64(rderr), sched.Continue
		}
		f = fd.NewDir(toDirEntries(children))
	default:
		initial := ino.Data
		if flags&defs.O_TRUNC != 0 {
			initial = nil
		}
		f = fd.NewRegular(initial)
		perms |= fd.FD_WRITE
	}

	return int64(task.Proc.Fds.Alloc(&fd.FD{Fops: f, Perms: perms})), sched.Continue
}

func toDirEntries(children []*fs.Inode) []fd.DirEntry {
	out := make([]fd.DirEntry, len(children))
	for i, c := range children {
		t := uint8(fd.DT_REG)
		if c.Kind == fs.KindDir {
			t = fd.DT_DIR
		}
		out[i] = fd.DirEntry{Name: c.Name, Type: t}
	}
	return out
}

// sysMkdirat implements mkdirat(2); dirfd is ignored the same way
// sysOpenat ignores it.
func (d *Dispatcher) sysMkdirat(task *proc.Task, pathVA uintptr) (int64, sched.Disposition) {
	if d.Tree == nil {
		return -int64(defs.ENOENT), sched.Continue
	}
	path, err := readPath(task, pathVA)
	if err != 0 {
		return int64(err), sched.Continue
	}
	if _, err := d.Tree.Mkdir(path); err != 0 {
		return int64(err), sched.Continue
	}
	return 0, sched.Continue
}

// sysUnlinkat implements unlinkat(2); the AT_REMOVEDIR distinction is not
// modelled since fs.FileTree.Unlink already drops either kind (§4.12).
func (d *Dispatcher) sysUnlinkat(task *proc.Task, pathVA uintptr) (int64, sched.Disposition) {
	if d.Tree == nil {
		return -int64(defs.ENOENT), sched.Continue
	}
	path, err := readPath(task, pathVA)
	if err != 0 {
		return int64(err), sched.Continue
	}
	return int64(d.Tree.Unlink(path)), sched.Continue
}

// sysStatfs writes a fixed, mostly-zero statfs(2) buffer: this core has no
// real block allocation to report (§6: "Persisted state: none; FAT32 is
// read-only in this implementation"), so only the fields musl's statvfs
// wrapper actually inspects (f_type, f_bsize) are set meaningfully.
func (d *Dispatcher) sysStatfs(task *proc.Task, pathVA, bufVA uintptr) (int64, sched.Disposition) {
	if d.Tree == nil {
		return -int64(defs.ENOENT), sched.Continue
	}
	path, perr := readPath(task, pathVA)
	if perr != 0 {
		return int64(perr), sched.Continue
	}
	if _, err := d.Tree.Lookup(path); err != 0 {
		return int64(err), sched.Continue
	}
	const msdosMagic = 0x4d44 // FAT's f_type per statfs(2), matching the tree it shadows
	buf := make([]byte, 64)
	util.Writen(buf, 8, 0, msdosMagic)
	util.Writen(buf, 8, 8, 512) // f_bsize
	if _, err := task.Proc.AS.WriteBytes(bufVA, buf); err != 0 {
		return int64(err), sched.Continue
	}
	return 0, sched.Continue
}

const direntHeaderSize = 19 // {d_ino uint64, d_off uint64, d_reclen uint16, d_type uint8}

// sysGetdents64 formats an fd.Dir's remaining entries into the caller's
// buffer as Linux dirent64 records, stopping once the next record would
// overflow count, matching getdents64(2)'s own partial-fill contract.
func (d *Dispatcher) sysGetdents64(task *proc.Task, fdno int, bufVA uintptr, count int) (int64, sched.Disposition) {
	f, err := fdFile(task.Proc, fdno)
	if err != 0 {
		return int64(err), sched.Continue
	}
	dir, ok := f.(*fd.Dir)
	if !ok {
		return -int64(defs.ENOTDIR), sched.Continue
	}

	var out []byte
	for {
		e, more := dir.Next()
		if !more {
			break
		}
		reclen := direntHeaderSize + len(e.Name) + 1
		reclen = (reclen + 7) &^ 7 // 8-byte align, per the wire format
		if len(out)+reclen > count {
			break
		}
		rec := make([]byte, reclen)
		util.Writen(rec, 8, 8, len(out)+reclen) // d_off: next record's start
		rec[16] = byte(reclen)
		rec[17] = byte(reclen >> 8)
		rec[18] = e.Type
		copy(rec[19:], e.Name)
		out = append(out, rec...)
	}
	if len(out) == 0 {
		return 0, sched.Continue
	}
	if _, werr := task.Proc.AS.WriteBytes(bufVA, out); werr != 0 {
		return int64(werr), sched.Continue
	}
	return int64(len(out)), sched.Continue
}

// sysReadlinkat always fails: this core's FileTree has no symlink kind
// (§3's Inode shape names file/dir/virt/device/pipe only), so every path
// is by definition not a symlink.
func (d *Dispatcher) sysReadlinkat() (int64, sched.Disposition) {
	return -int64(defs.EINVAL), sched.Continue
}

// sysFstatat implements fstatat(2) for the non-symlink case this core's
// flat tree supports; dirfd/flags are ignored the same way sysOpenat
// ignores dirfd.
func (d *Dispatcher) sysFstatat(task *proc.Task, pathVA, statVA uintptr) (int64, sched.Disposition) {
	if d.Tree == nil {
		return -int64(defs.ENOENT), sched.Continue
	}
	path, perr := readPath(task, pathVA)
	if perr != 0 {
		return int64(perr), sched.Continue
	}
	ino, err := d.Tree.Lookup(path)
	if err != 0 {
		return int64(err), sched.Continue
	}
	st := fstatFor(ino.Size)
	if ino.Kind == fs.KindDir {
		st.Mode = stat.S_IFDIR | 0755
	}
	st.Nlink = uint32(ino.Nlink)
	if _, werr := task.Proc.AS.WriteBytes(statVA, st.Bytes()); werr != 0 {
		return int64(werr), sched.Continue
	}
	return 0, sched.Continue
}

// sysUtimensat is a no-op: no Inode in this core tracks atime/mtime (§3's
// Inode shape carries no timestamp fields), so there is nothing to update
// beyond reporting success the way musl's build scripts expect.
func (d *Dispatcher) sysUtimensat() (int64, sched.Disposition) {
	return 0, sched.Continue
}

// sysSendfile copies up to count bytes from inFd's current offset to
// outFd, the in-kernel copy loop sendfile(2) is shorthand for. The
// optional user-space offset pointer argument is not modelled; callers
// passing one (offset!=NULL) are out of scope for this core's in-memory
// fds.
func (d *Dispatcher) sysSendfile(task *proc.Task, outFd, inFd, count int) (int64, sched.Disposition) {
	p := task.Proc
	in, err := fdFile(p, inFd)
	if err != 0 {
		return int64(err), sched.Continue
	}
	out, err := fdFile(p, outFd)
	if err != 0 {
		return int64(err), sched.Continue
	}
	tmp := make([]byte, count)
	n, rerr := in.Read(tmp)
	if rerr != 0 {
		return int64(rerr), sched.Continue
	}
	if n == 0 {
		return 0, sched.Continue
	}
	wn, werr := out.Write(tmp[:n])
	if werr != 0 {
		return int64(werr), sched.Continue
	}
	return int64(wn), sched.Continue
}

const pollfdSize = 8 // {fd int32, events int16, revents int16}

// sysPpoll implements a non-blocking poll (§4.12/§5): every fd this core
// exposes is either always ready (stdio, regular files, directories) or
// never blocks on its own read/write path (pipes — §4.10: "Neither
// endpoint blocks in this implementation"), so unlike nanosleep there is
// no real wait condition to park a task on. A zero timeout and a
// populated fd set both resolve on the same trap.
func (d *Dispatcher) sysPpoll(task *proc.Task, fdsVA uintptr, nfds int) (int64, sched.Disposition) {
	p := task.Proc
	ready := int64(0)
	for i := 0; i < nfds; i++ {
		entryVA := fdsVA + uintptr(i*pollfdSize)
		raw, err := p.AS.ReadU64(entryVA)
		if err != 0 {
			return int64(err), sched.Continue
		}
		fdno := int32(raw)
		events := int16(raw >> 32)
		revents := int16(0)
		f := p.Fds.Get(int(fdno))
		switch {
		case f == nil:
			revents = defs.POLLNVAL
		default:
			if events&defs.POLLIN != 0 && f.Fops.Readable() {
				revents |= defs.POLLIN
			}
			if events&defs.POLLOUT != 0 && f.Fops.Writable() {
				revents |= defs.POLLOUT
			}
		}
		if revents != 0 {
			ready++
		}
		newRaw := raw&^(uint64(0xffff)<<48) | uint64(uint16(revents))<<48
		if err := p.AS.WriteU64(entryVA, newRaw); err != 0 {
			return int64(err), sched.Continue
		}
	}
	return ready, sched.Continue
}

// fstatFor builds a minimal struct stat for an in-memory file object:
// regular-file mode bits and the given size, zeroed timestamps. Device
// files and pipes would want distinct S_IF* bits; callers needing that
// distinction should build their own stat.Stat instead of calling this.
func fstatFor(size int64) *stat.Stat {
	return &stat.Stat{Mode: stat.S_IFREG | 0644, Nlink: 1, Size: size, Blksize: 512}
}
