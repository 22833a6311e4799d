package fd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSocketPairLoopback(t *testing.T) {
	a, b := NewSocketPair()
	n, err := a.Write([]byte("ping"))
	require.Zero(t, err)
	require.Equal(t, 4, n)

	buf := make([]byte, 8)
	n, err = b.Read(buf)
	require.Zero(t, err)
	require.Equal(t, "ping", string(buf[:n]))
}

func TestSocketWriteAfterCloseFails(t *testing.T) {
	a, b := NewSocketPair()
	a.Close()
	_, err := a.Write([]byte("x"))
	require.NotZero(t, err)

	n, err := b.Read(make([]byte, 4))
	require.Zero(t, err)
	require.Equal(t, 0, n)
}
