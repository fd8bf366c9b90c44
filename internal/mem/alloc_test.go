package mem

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)
		assert.Equal(t, size, cap(buf))

		addr := uintptr(unsafe.Pointer(&buf[0]))
		assert.Equal(t, uintptr(0), addr%Alignment, "Address %d should be aligned to %d for size %d", addr, Alignment, size)
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
}

func TestFillPattern(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		pattern []byte
		want    []byte
	}{
		{"exact multiple", 8, []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4, 1, 2, 3, 4}},
		{"partial tail", 6, []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4, 1, 2}},
		{"shorter than pattern", 2, []byte{1, 2, 3, 4}, []byte{1, 2}},
		{"single byte", 5, []byte{9}, []byte{9, 9, 9, 9, 9}},
		{"empty dst", 0, []byte{1}, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.size)
			FillPattern(dst, tt.pattern)
			assert.Equal(t, tt.want, dst)
		})
	}
}

func TestFillPattern_EmptyPattern(t *testing.T) {
	dst := []byte{7, 7}
	FillPattern(dst, nil)
	assert.Equal(t, []byte{7, 7}, dst)
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size)
			}
		})
	}
}

func BenchmarkFillPattern(b *testing.B) {
	dst := make([]byte, 36*100_000)
	pattern := make([]byte, 36)
	b.SetBytes(int64(len(dst)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		FillPattern(dst, pattern)
	}
}
