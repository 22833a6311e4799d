package fd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticFileReadAtOffset(t *testing.T) {
	sf := &StaticFile{Data: []byte("abcdef")}
	buf := make([]byte, 3)
	n, err := sf.ReadAt(2, buf)
	require.Zero(t, err)
	require.Equal(t, "cde", string(buf[:n]))
}

func TestStaticFileWriteFails(t *testing.T) {
	sf := &StaticFile{Data: []byte("x")}
	_, err := sf.Write([]byte("y"))
	require.NotZero(t, err)
}

func TestMemInfoTextContainsExpectedFields(t *testing.T) {
	text := MemInfoText(1000, 400)
	require.True(t, strings.Contains(text, "MemTotal:"))
	require.True(t, strings.Contains(text, "4000 kB"))
	require.True(t, strings.Contains(text, "1600 kB"))
}
