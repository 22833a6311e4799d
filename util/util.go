// Package util collects small generic numeric helpers used throughout the
// kernel for page-alignment arithmetic and fixed-size value packing. Ported
// from biscuit's util package with no behavioural change.
package util

import "unsafe"

// Int is satisfied by any integer type these helpers operate on.
type Int interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Min returns the smaller of a and b.
func Min[T Int](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Rounddown rounds v down to the nearest multiple of n.
func Rounddown[T Int](v, n T) T {
	return v - v%n
}

// Roundup rounds v up to the nearest multiple of n.
func Roundup[T Int](v, n T) T {
	return Rounddown(v+n-1, n)
}

// Readn reads an n-byte (1, 2, 4, or 8) little-endian value out of a at the
// given byte offset.
func Readn(a []uint8, n, off int) int {
	p := unsafe.Pointer(&a[off])
	switch n {
	case 1:
		return int(*(*int8)(p))
	case 2:
		return int(*(*int16)(p))
	case 4:
		return int(*(*int32)(p))
	case 8:
		return int(*(*int64)(p))
	default:
		panic("bad size")
	}
}

// Writen packs val as an n-byte (1, 2, 4, or 8) little-endian value into a
// at the given byte offset.
func Writen(a []uint8, sz, off, val int) {
	p := unsafe.Pointer(&a[off])
	switch sz {
	case 1:
		*(*int8)(p) = int8(val)
	case 2:
		*(*int16)(p) = int16(val)
	case 4:
		*(*int32)(p) = int32(val)
	case 8:
		*(*int64)(p) = int64(val)
	default:
		panic("bad size")
	}
}
