package fd

import "rvkernel/defs"

// StaticFile backs the handful of read-only synthetic files the
// supplementary features list calls for: /proc/meminfo, /proc/mounts,
// /etc/adjtime, /dev/rtc's one-shot read. Content is generated once (by
// the caller, e.g. from live allocator stats) and served as an immutable
// byte slice: Read continues from where the previous Read stopped, ReadAt
// reads at any offset. There is no Seek method, so lseek on it fails with
// ESPIPE.
type StaticFile struct {
	Data []byte
	off  int64
}

func (s *StaticFile) Read(p []byte) (int, defs.Err_t) {
	n, err := s.ReadAt(s.off, p)
	s.off += int64(n)
	return n, err
}

func (s *StaticFile) Write(p []byte) (int, defs.Err_t) { return 0, -defs.EROFS }

func (s *StaticFile) ReadAt(off int64, p []byte) (int, defs.Err_t) {
	if off < 0 || off >= int64(len(s.Data)) {
		return 0, 0
	}
	n := copy(p, s.Data[off:])
	return n, 0
}

func (s *StaticFile) WriteAt(off int64, p []byte) (int, defs.Err_t) { return 0, -defs.EROFS }
func (s *StaticFile) GetSize() (int64, defs.Err_t)                  { return int64(len(s.Data)), 0 }
func (s *StaticFile) Readable() bool                                { return true }
func (s *StaticFile) Writable() bool                                { return false }
func (s *StaticFile) Reopen() (File, defs.Err_t)                    { return s, 0 }
func (s *StaticFile) Close() defs.Err_t                             { return 0 }

// MemInfoText renders a /proc/meminfo body from allocator stats, matching
// the fields lmbench and busybox's free(1) actually parse.
func MemInfoText(totalPages, freePages int) string {
	totalKB := totalPages * 4
	freeKB := freePages * 4
	return "MemTotal:       " + itoaPad(totalKB) + " kB\n" +
		"MemFree:        " + itoaPad(freeKB) + " kB\n" +
		"MemAvailable:   " + itoaPad(freeKB) + " kB\n"
}

func itoaPad(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
