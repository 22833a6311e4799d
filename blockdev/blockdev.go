// Package blockdev defines the sector-addressed storage contract a FAT32
// reader would sit on top of (§1/§9: "block device... Device with
// read_block/write_block/handle_irq... satisfying it is external to this
// core"). Grounded on biscuit's fs.Disk_i/Bdev_req_t shape (fs/blk.go):
// where biscuit queues a Bdev_req_t carrying a command, a block list, and
// an acknowledgement channel, this core exposes the same request/response
// split as a synchronous interface plus a request struct, since there is
// no AHCI/virtio driver in this corpus to implement it against.
package blockdev

import "rvkernel/defs"

// SectorSize is the device's native block size, matching biscuit's
// BSIZE convention used throughout fs/blk.go.
const SectorSize = 512

// Device is the contract a block driver (virtio-blk, AHCI, ramdisk)
// implements. No concrete implementation lives in this core; the FAT32
// reader that would consume it is likewise outside this core (§1 treats
// both the block driver and the FAT32 reader as external collaborators).
type Device interface {
	// ReadBlock reads exactly SectorSize bytes from the given sector into
	// dst, which must be at least SectorSize bytes long.
	ReadBlock(sector uint64, dst []byte) defs.Err_t
	// WriteBlock writes exactly SectorSize bytes from src to the given
	// sector.
	WriteBlock(sector uint64, src []byte) defs.Err_t
	// HandleIRQ services the device's completion interrupt, mirroring
	// biscuit's Disk_i.Start callback path (fs/blk.go's Bdev_req_t.AckCh).
	HandleIRQ()
}

// Request mirrors biscuit's Bdev_req_t: one in-flight operation plus its
// completion signal, used by a Device implementation's internal queue.
type Request struct {
	Sector uint64
	Write  bool
	Buf    []byte
	Done   chan defs.Err_t
}

// NewRequest allocates a request with its completion channel ready,
// mirroring biscuit's MkRequest (fs/blk.go).
func NewRequest(sector uint64, write bool, buf []byte) *Request {
	return &Request{Sector: sector, Write: write, Buf: buf, Done: make(chan defs.Err_t, 1)}
}
