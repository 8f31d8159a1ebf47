package cbor

import "unsafe"

// unsafeString returns a string that shares the same underlying memory as b.
// b must not be written to afterwards; the string decoders only pass slices
// they have just allocated and never touch again.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
