package stat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/util"
)

func TestBytesRoundTripsFields(t *testing.T) {
	s := &Stat{Dev: 1, Ino: 42, Mode: S_IFREG | 0644, Nlink: 1, Size: 1024, Blksize: 4096}
	b := s.Bytes()
	require.Len(t, b, 128)
	require.Equal(t, 42, util.Readn(b, 8, 8))
	require.Equal(t, 1024, util.Readn(b, 8, 48))
	require.Equal(t, int(S_IFREG|0644), util.Readn(b, 4, 16))
}
