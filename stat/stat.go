// Package stat implements the Linux struct stat layout fstat/fstatat/lstat
// write into user memory. Adapted from biscuit's stat package (which packs
// a much smaller field set sufficient for biscuit's own ABI) expanded to
// the fields a musl-linked binary actually reads: dev, ino, mode, nlink,
// uid, gid, rdev, size, blksize, blocks, and the three timestamp pairs.
package stat

import "rvkernel/util"

// File type bits for st_mode (matching S_IFMT and friends).
const (
	S_IFREG  = 0o100000
	S_IFDIR  = 0o040000
	S_IFCHR  = 0o020000
	S_IFIFO  = 0o010000
	S_IFSOCK = 0o140000
)

// Stat mirrors the wire layout of Linux rv64's struct stat (64-bit fields,
// no padding games beyond what the kernel ABI already guarantees for
// 8-byte-aligned fields).
type Stat struct {
	Dev     uint64
	Ino     uint64
	Mode    uint32
	Nlink   uint32
	Uid     uint32
	Gid     uint32
	Rdev    uint64
	_pad    uint64
	Size    int64
	Blksize int32
	_pad2   int32
	Blocks  int64
	Atime   int64
	AtimeNs int64
	Mtime   int64
	MtimeNs int64
	Ctime   int64
	CtimeNs int64
}

// Bytes serializes s into the 128-byte layout fstat(2) writes, using
// util.Writen the way biscuit's Stat_t.Bytes does.
func (s *Stat) Bytes() []byte {
	b := make([]byte, 128)
	util.Writen(b, 8, 0, int(s.Dev))
	util.Writen(b, 8, 8, int(s.Ino))
	util.Writen(b, 4, 16, int(s.Mode))
	util.Writen(b, 4, 20, int(s.Nlink))
	util.Writen(b, 4, 24, int(s.Uid))
	util.Writen(b, 4, 28, int(s.Gid))
	util.Writen(b, 8, 32, int(s.Rdev))
	util.Writen(b, 8, 48, int(s.Size))
	util.Writen(b, 4, 56, int(s.Blksize))
	util.Writen(b, 8, 64, int(s.Blocks))
	util.Writen(b, 8, 72, int(s.Atime))
	util.Writen(b, 8, 80, int(s.AtimeNs))
	util.Writen(b, 8, 88, int(s.Mtime))
	util.Writen(b, 8, 96, int(s.MtimeNs))
	util.Writen(b, 8, 104, int(s.Ctime))
	util.Writen(b, 8, 112, int(s.CtimeNs))
	return b
}
