package fd

import (
	"sync"

	"rvkernel/defs"
)

// pipeBuf is the unbounded byte deque shared by a reader and a writer
// endpoint (§4.10, §3). Biscuit's circbuf.Circbuf_t is the model for the
// read/write copy shape, but circbuf is a fixed-capacity ring over one
// lazily-allocated page; this kernel's pipe is explicitly unbounded per
// §3/§4.10 ("Unbounded byte deque"), so it grows a plain slice instead of
// wrapping a single page.
type pipeBuf struct {
	mu   sync.Mutex
	data []byte
}

// PipeReader and PipeWriter are distinct File objects sharing one pipeBuf,
// matching §3's "distinct file objects sharing the deque".
type PipeReader struct{ buf *pipeBuf }
type PipeWriter struct{ buf *pipeBuf }

// NewPipe creates a connected reader/writer pair (pipe2(2)).
func NewPipe() (*PipeReader, *PipeWriter) {
	b := &pipeBuf{}
	return &PipeReader{buf: b}, &PipeWriter{buf: b}
}

// Read drains up to len(p) bytes, returning the number actually read. Per
// §4.10/§9's documented quirk, an empty pipe returns 0 immediately rather
// than blocking the caller — this differs from Linux but the userspace
// corpus this kernel targets tolerates it, so the behaviour is preserved
// as-is rather than "fixed".
func (r *PipeReader) Read(p []byte) (int, defs.Err_t) {
	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()
	n := copy(p, r.buf.data)
	r.buf.data = r.buf.data[n:]
	return n, 0
}

func (r *PipeReader) Write(p []byte) (int, defs.Err_t)            { return 0, -defs.EBADF }
func (r *PipeReader) ReadAt(off int64, p []byte) (int, defs.Err_t) { return 0, -defs.ESPIPE }
func (r *PipeReader) WriteAt(off int64, p []byte) (int, defs.Err_t) { return 0, -defs.ESPIPE }
func (r *PipeReader) GetSize() (int64, defs.Err_t)                 { return 0, -defs.ESPIPE }
func (r *PipeReader) Readable() bool                               { return true }
func (r *PipeReader) Writable() bool                               { return false }
func (r *PipeReader) Reopen() (File, defs.Err_t)                   { return r, 0 }
func (r *PipeReader) Close() defs.Err_t                            { return 0 }

// Write appends to the deque; it never blocks and never fails for space
// reasons since the deque is unbounded (§4.10: "write appends").
func (w *PipeWriter) Write(p []byte) (int, defs.Err_t) {
	w.buf.mu.Lock()
	defer w.buf.mu.Unlock()
	w.buf.data = append(w.buf.data, p...)
	return len(p), 0
}

func (w *PipeWriter) Read(p []byte) (int, defs.Err_t)             { return 0, -defs.EBADF }
func (w *PipeWriter) ReadAt(off int64, p []byte) (int, defs.Err_t) { return 0, -defs.ESPIPE }
func (w *PipeWriter) WriteAt(off int64, p []byte) (int, defs.Err_t) { return 0, -defs.ESPIPE }
func (w *PipeWriter) GetSize() (int64, defs.Err_t)                 { return 0, -defs.ESPIPE }
func (w *PipeWriter) Readable() bool                               { return false }
func (w *PipeWriter) Writable() bool                               { return true }
func (w *PipeWriter) Reopen() (File, defs.Err_t)                   { return w, 0 }
func (w *PipeWriter) Close() defs.Err_t                            { return 0 }
