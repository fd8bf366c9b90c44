package mem

import (
	"unsafe"
)

// Alignment is the start alignment of every slice returned by AllocAligned.
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size starting at an
// address divisible by Alignment. It returns nil for size <= 0.
//
// The backing array is over-allocated by Alignment bytes and kept alive by the
// returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))

	return buf[offset : offset+size : offset+size]
}

// FillPattern fills dst with repeated copies of pattern, starting at dst[0].
// A trailing partial copy is written if len(dst) is not a multiple of len(pattern).
func FillPattern(dst, pattern []byte) {
	if len(dst) == 0 || len(pattern) == 0 {
		return
	}
	n := copy(dst, pattern)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}
