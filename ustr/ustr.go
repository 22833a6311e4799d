// Package ustr implements the path-string type shared by the fd table and
// the syscall layer's path-resolution helpers. Adapted from biscuit's ustr
// package, which represents path components as raw byte slices to avoid
// forcing a UTF-8 validity check on every FAT32 name lookup.
package ustr

import "bytes"

// Ustr is a raw path string, NUL-truncated like the names that come back
// from addrspace.AddressSpace.ReadString.
type Ustr []uint8

// MkUstr builds a Ustr from a plain Go string.
func MkUstr(s string) Ustr {
	return Ustr(s)
}

// MkUstrSlice truncates b at its first NUL byte (or uses it whole) and
// wraps the result.
func MkUstrSlice(b []uint8) Ustr {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	cp := make([]uint8, len(b))
	copy(cp, b)
	return Ustr(cp)
}

// MkUstrDot returns the "." path component.
func MkUstrDot() Ustr { return Ustr(".") }

// MkUstrRoot returns the "/" path.
func MkUstrRoot() Ustr { return Ustr("/") }

// DotDot returns the ".." path component.
func DotDot() Ustr { return Ustr("..") }

func (u Ustr) String() string { return string(u) }

// Eq reports whether u and o name the same path string.
func (u Ustr) Eq(o Ustr) bool { return bytes.Equal(u, o) }

// Isdot reports whether u is exactly ".".
func (u Ustr) Isdot() bool { return len(u) == 1 && u[0] == '.' }

// Isdotdot reports whether u is exactly "..".
func (u Ustr) Isdotdot() bool { return len(u) == 2 && u[0] == '.' && u[1] == '.' }

// IsAbsolute reports whether u begins with "/".
func (u Ustr) IsAbsolute() bool { return len(u) > 0 && u[0] == '/' }

// IndexByte returns the index of the first occurrence of b in u, or -1.
func (u Ustr) IndexByte(b byte) int { return bytes.IndexByte(u, b) }

// Extend appends a path component, inserting a separating "/" unless one is
// already present on either side of the join.
func (u Ustr) Extend(o Ustr) Ustr {
	return u.ExtendStr(string(o))
}

// ExtendStr is Extend with a plain string argument.
func (u Ustr) ExtendStr(s string) Ustr {
	if len(u) == 0 {
		return MkUstr(s)
	}
	if u[len(u)-1] == '/' {
		return Ustr(string(u) + s)
	}
	return Ustr(string(u) + "/" + s)
}
