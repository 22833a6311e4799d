package fd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipeWriteThenRead(t *testing.T) {
	r, w := NewPipe()
	n, err := w.Write([]byte("xyz"))
	require.Zero(t, err)
	require.Equal(t, 3, n)

	buf := make([]byte, 3)
	n, err = r.Read(buf)
	require.Zero(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "xyz", string(buf))
}

func TestPipeEmptyReadReturnsZeroNotBlocking(t *testing.T) {
	r, _ := NewPipe()
	buf := make([]byte, 8)
	n, err := r.Read(buf)
	require.Zero(t, err)
	require.Equal(t, 0, n)
}

func TestPipePartialRead(t *testing.T) {
	r, w := NewPipe()
	w.Write([]byte("hello world"))
	buf := make([]byte, 5)
	n, _ := r.Read(buf)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(buf))
	n, _ = r.Read(buf)
	require.Equal(t, 5, n)
	require.Equal(t, " worl", string(buf))
}
