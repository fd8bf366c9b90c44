package layout

import (
	"encoding/binary"
	"math"
)

// Kind is the primitive type of a field.
type Kind uint8

const (
	// Invalid is the zero Kind.
	Invalid Kind = iota
	// Float32 is an IEEE-754 single precision float.
	Float32
	// Float64 is an IEEE-754 double precision float.
	Float64
	// Int32 is a signed 32-bit integer.
	Int32
	// Int64 is a signed 64-bit integer.
	Int64
)

// Canonical sentinel bit patterns.
const (
	// Float32SentinelBits is the canonical quiet NaN for float32 fields.
	Float32SentinelBits uint32 = 0x7FC00000
	// Float64SentinelBits is the canonical quiet NaN for float64 fields.
	Float64SentinelBits uint64 = 0x7FF8000000000000
	// Int32Sentinel marks an absent int32 field.
	Int32Sentinel int32 = math.MinInt32
	// Int64Sentinel marks an absent int64 field.
	Int64Sentinel int64 = math.MinInt64
	// Int32SentinelBits is the bit pattern of Int32Sentinel.
	Int32SentinelBits uint32 = 1 << 31
	// Int64SentinelBits is the bit pattern of Int64Sentinel.
	Int64SentinelBits uint64 = 1 << 63
)

var native = binary.NativeEndian

// Width returns the encoded size in bytes, or 0 for an invalid kind.
func (k Kind) Width() int {
	switch k {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		return 0
	}
}

// Alignment returns the natural alignment of the kind in bytes.
func (k Kind) Alignment() int {
	return k.Width()
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k.Width() > 0
}

// Sentinel returns the native-endian encoding of the absent sentinel.
func (k Kind) Sentinel() []byte {
	b := make([]byte, k.Width())
	switch k {
	case Float32:
		native.PutUint32(b, Float32SentinelBits)
	case Float64:
		native.PutUint64(b, Float64SentinelBits)
	case Int32:
		native.PutUint32(b, Int32SentinelBits)
	case Int64:
		native.PutUint64(b, Int64SentinelBits)
	}
	return b
}

func (k Kind) String() string {
	switch k {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "invalid"
	}
}
