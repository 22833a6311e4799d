package blockdev

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvkernel/defs"
)

// memDevice is a test-only Device backed by a byte slice, used to verify
// the Request/Device contract shape rather than any real hardware.
type memDevice struct {
	sectors map[uint64][]byte
}

func newMemDevice() *memDevice { return &memDevice{sectors: make(map[uint64][]byte)} }

func (m *memDevice) ReadBlock(sector uint64, dst []byte) defs.Err_t {
	data, ok := m.sectors[sector]
	if !ok {
		data = make([]byte, SectorSize)
	}
	copy(dst, data)
	return 0
}

func (m *memDevice) WriteBlock(sector uint64, src []byte) defs.Err_t {
	buf := make([]byte, SectorSize)
	copy(buf, src)
	m.sectors[sector] = buf
	return 0
}

func (m *memDevice) HandleIRQ() {}

func TestMemDeviceSatisfiesDeviceInterface(t *testing.T) {
	var d Device = newMemDevice()
	buf := make([]byte, SectorSize)
	for i := range buf {
		buf[i] = 0x42
	}
	require.Zero(t, d.WriteBlock(3, buf))

	got := make([]byte, SectorSize)
	require.Zero(t, d.ReadBlock(3, got))
	require.Equal(t, buf, got)
}

func TestNewRequestHasBufferedCompletionChannel(t *testing.T) {
	req := NewRequest(7, true, make([]byte, SectorSize))
	req.Done <- 0
	require.Zero(t, <-req.Done)
	require.EqualValues(t, 7, req.Sector)
	require.True(t, req.Write)
}
