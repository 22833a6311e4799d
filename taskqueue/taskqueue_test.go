package taskqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPopSplitsArgvOnWhitespace(t *testing.T) {
	q := New("/bin/sh -c ls")
	argv, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, []string{"/bin/sh", "-c", "ls"}, argv)
	require.True(t, q.Empty())
}

func TestPopOnEmptyQueueReportsFalse(t *testing.T) {
	q := New()
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestPushAppendsToTailFIFO(t *testing.T) {
	q := New("/init")
	q.Push("/bin/sh")
	require.Equal(t, 2, q.Len())

	first, _ := q.Pop()
	require.Equal(t, []string{"/init"}, first)
	second, _ := q.Pop()
	require.Equal(t, []string{"/bin/sh"}, second)
}
