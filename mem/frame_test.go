package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocFreeConservation(t *testing.T) {
	a := NewAllocator(0, 16, nil)
	var held []Frame
	for i := 0; i < 16; i++ {
		f, err := a.Alloc()
		require.Zero(t, err)
		for _, h := range held {
			require.NotEqual(t, h, f, "alloc returned a frame already held")
		}
		held = append(held, f)
	}
	_, err := a.Alloc()
	require.NotZero(t, err, "allocator should be exhausted")

	a.Free(held[3])
	f, err := a.Alloc()
	require.Zero(t, err)
	require.Equal(t, held[3], f)

	allocated, total := a.Stats()
	require.Equal(t, 16, allocated)
	require.Equal(t, 16, total)
}

func TestAllocZeroesFrames(t *testing.T) {
	var zeroed []Frame
	a := NewAllocator(0, 4, func(f Frame) { zeroed = append(zeroed, f) })
	f, err := a.Alloc()
	require.Zero(t, err)
	require.Contains(t, zeroed, f)
}

func TestAllocContigPicksFromHighEnd(t *testing.T) {
	a := NewAllocator(0, 16, nil)
	f, err := a.AllocContig(4)
	require.Zero(t, err)
	require.Equal(t, Frame(12), f)

	a.FreeContig(f, 4)
	allocated, _ := a.Stats()
	require.Zero(t, allocated)
}

func TestAllocContigFailsWhenNoRunFits(t *testing.T) {
	a := NewAllocator(0, 8, nil)
	// fragment: allocate every other frame so no run of 2 remains free
	for i := 0; i < 8; i += 2 {
		a.used[i] = true
	}
	_, err := a.AllocContig(2)
	require.NotZero(t, err)
}
