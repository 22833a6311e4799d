package fd

import (
	"sync"

	"rvkernel/defs"
)

// Socket is the trivial in-memory socket buffer named in §1's Non-goals
// ("networking beyond a trivial in-memory socket buffer"): a single FIFO
// per socket, good enough for AF_UNIX SOCK_STREAM loopback pairs used by
// busybox/lua self-tests, not a real network stack.
type Socket struct {
	mu     sync.Mutex
	data   []byte
	peer   *Socket
	closed bool
}

// NewSocketPair creates two connected Sockets (socketpair(2)).
func NewSocketPair() (*Socket, *Socket) {
	a := &Socket{}
	b := &Socket{}
	a.peer = b
	b.peer = a
	return a, b
}

func (s *Socket) Read(p []byte) (int, defs.Err_t) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		if s.closed {
			return 0, 0
		}
		return 0, 0
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, 0
}

func (s *Socket) Write(p []byte) (int, defs.Err_t) {
	s.mu.Lock()
	peer := s.peer
	closed := s.closed
	s.mu.Unlock()
	if closed || peer == nil {
		return 0, -defs.EPIPE
	}
	peer.mu.Lock()
	peer.data = append(peer.data, p...)
	peer.mu.Unlock()
	return len(p), 0
}

func (s *Socket) ReadAt(off int64, p []byte) (int, defs.Err_t)  { return 0, -defs.ESPIPE }
func (s *Socket) WriteAt(off int64, p []byte) (int, defs.Err_t) { return 0, -defs.ESPIPE }
func (s *Socket) GetSize() (int64, defs.Err_t)                  { return 0, -defs.ESPIPE }
func (s *Socket) Readable() bool                                { return true }
func (s *Socket) Writable() bool                                { return true }
func (s *Socket) Reopen() (File, defs.Err_t)                    { return s, 0 }

func (s *Socket) Close() defs.Err_t {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return 0
}
