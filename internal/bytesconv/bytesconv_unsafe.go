//go:build !appengine

package bytesconv

import "unsafe"

// String convert without copy buf to a string value.
// Since Go strings are immutable, the bytes passed to String must NOT be modified
// while the returned string is in use.
func String(buf []byte) string {
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}
