package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundupRounddown(t *testing.T) {
	require.Equal(t, 4096, Roundup(1, 4096))
	require.Equal(t, 4096, Roundup(4096, 4096))
	require.Equal(t, 8192, Roundup(4097, 4096))
	require.Equal(t, 0, Rounddown(4095, 4096))
	require.Equal(t, 4096, Rounddown(4096, 4096))
}

func TestMin(t *testing.T) {
	require.Equal(t, 3, Min(3, 9))
	require.Equal(t, -1, Min(-1, 0))
}

func TestReadnWriten(t *testing.T) {
	buf := make([]uint8, 16)
	Writen(buf, 8, 0, 12345)
	require.Equal(t, 12345, Readn(buf, 8, 0))
	Writen(buf, 4, 8, -7)
	require.Equal(t, -7, Readn(buf, 4, 8))
}
