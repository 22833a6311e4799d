package fd

import "rvkernel/defs"

// Console is the external SBI console collaborator (§1: "SBI console...
// calls" are out of scope for this core). Stdio wraps one.
type Console interface {
	ReadByte() (b byte, ok bool)
	WriteByte(b byte)
}

// Stdio backs fd 0/1/2 by default, reading/writing through Console.
type Stdio struct {
	Con    Console
	Input  bool // true for stdin (readable), false for stdout/stderr (writable)
}

func (s *Stdio) Read(p []byte) (int, defs.Err_t) {
	if !s.Input {
		return 0, -defs.EBADF
	}
	n := 0
	for n < len(p) {
		b, ok := s.Con.ReadByte()
		if !ok {
			break
		}
		p[n] = b
		n++
	}
	return n, 0
}

func (s *Stdio) Write(p []byte) (int, defs.Err_t) {
	if s.Input {
		return 0, -defs.EBADF
	}
	for _, b := range p {
		s.Con.WriteByte(b)
	}
	return len(p), 0
}

func (s *Stdio) ReadAt(off int64, p []byte) (int, defs.Err_t)  { return 0, -defs.ESPIPE }
func (s *Stdio) WriteAt(off int64, p []byte) (int, defs.Err_t) { return 0, -defs.ESPIPE }
func (s *Stdio) GetSize() (int64, defs.Err_t)                  { return 0, -defs.ESPIPE }
func (s *Stdio) Readable() bool                                { return s.Input }
func (s *Stdio) Writable() bool                                { return !s.Input }
func (s *Stdio) Reopen() (File, defs.Err_t)                    { return s, 0 }
func (s *Stdio) Close() defs.Err_t                             { return 0 }

// DevZero backs /dev/zero: reads fill the buffer with zero bytes, writes
// are discarded successfully.
type DevZero struct{}

func (DevZero) Read(p []byte) (int, defs.Err_t) {
	for i := range p {
		p[i] = 0
	}
	return len(p), 0
}
func (DevZero) Write(p []byte) (int, defs.Err_t)             { return len(p), 0 }
func (DevZero) ReadAt(off int64, p []byte) (int, defs.Err_t)  { return DevZero{}.Read(p) }
func (DevZero) WriteAt(off int64, p []byte) (int, defs.Err_t) { return len(p), 0 }
func (DevZero) GetSize() (int64, defs.Err_t)                  { return 0, 0 }
func (DevZero) Readable() bool                                { return true }
func (DevZero) Writable() bool                                { return true }
func (DevZero) Reopen() (File, defs.Err_t)                    { return DevZero{}, 0 }
func (DevZero) Close() defs.Err_t                             { return 0 }

// DevNull backs /dev/null: reads return EOF (0 bytes), writes succeed and
// discard.
type DevNull struct{}

func (DevNull) Read(p []byte) (int, defs.Err_t)              { return 0, 0 }
func (DevNull) Write(p []byte) (int, defs.Err_t)              { return len(p), 0 }
func (DevNull) ReadAt(off int64, p []byte) (int, defs.Err_t)  { return 0, 0 }
func (DevNull) WriteAt(off int64, p []byte) (int, defs.Err_t) { return len(p), 0 }
func (DevNull) GetSize() (int64, defs.Err_t)                  { return 0, 0 }
func (DevNull) Readable() bool                                { return true }
func (DevNull) Writable() bool                                { return true }
func (DevNull) Reopen() (File, defs.Err_t)                    { return DevNull{}, 0 }
func (DevNull) Close() defs.Err_t                             { return 0 }
