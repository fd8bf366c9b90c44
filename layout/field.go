package layout

import (
	"fmt"
	"math"
)

// Field is one named sub-field of an element.
type Field struct {
	Name string
	Kind Kind
	// Offset is the byte offset of the field inside the element.
	Offset int
	// Unaligned marks a field that is deliberately placed at an offset that is
	// not a multiple of its natural alignment.
	Unaligned bool
}

// Width returns the encoded size of the field in bytes.
func (f Field) Width() int {
	return f.Kind.Width()
}

// End returns the offset one past the last byte of the field.
func (f Field) End() int {
	return f.Offset + f.Kind.Width()
}

// Aligned reports whether the offset is a multiple of the natural alignment.
func (f Field) Aligned() bool {
	a := f.Kind.Alignment()
	return a > 0 && f.Offset%a == 0
}

func (f Field) String() string {
	s := fmt.Sprintf("%s:%s@%d", f.Name, f.Kind, f.Offset)
	if f.Unaligned {
		s += "(unaligned)"
	}
	return s
}

// IsAbsent reports whether the field inside row holds the sentinel pattern.
func (f Field) IsAbsent(row []byte) bool {
	b := row[f.Offset:]
	switch f.Kind {
	case Float32:
		return native.Uint32(b) == Float32SentinelBits
	case Float64:
		return native.Uint64(b) == Float64SentinelBits
	case Int32:
		return native.Uint32(b) == Int32SentinelBits
	case Int64:
		return native.Uint64(b) == Int64SentinelBits
	default:
		return false
	}
}

// MarkAbsent writes the sentinel pattern into the field inside row.
func (f Field) MarkAbsent(row []byte) {
	b := row[f.Offset:]
	switch f.Kind {
	case Float32:
		native.PutUint32(b, Float32SentinelBits)
	case Float64:
		native.PutUint64(b, Float64SentinelBits)
	case Int32:
		native.PutUint32(b, Int32SentinelBits)
	case Int64:
		native.PutUint64(b, Int64SentinelBits)
	}
}

// Canonicalize rewrites any NaN stored in a float field as the canonical
// sentinel. It is a no-op for integer fields.
func (f Field) Canonicalize(row []byte) {
	switch f.Kind {
	case Float32:
		if v := f.Float32(row); math.IsNaN(float64(v)) {
			f.MarkAbsent(row)
		}
	case Float64:
		if v := f.Float64(row); math.IsNaN(v) {
			f.MarkAbsent(row)
		}
	}
}

// Float32 decodes a float32 field.
func (f Field) Float32(row []byte) float32 {
	return math.Float32frombits(native.Uint32(row[f.Offset:]))
}

// PutFloat32 encodes a float32 field bit-for-bit.
func (f Field) PutFloat32(row []byte, v float32) {
	native.PutUint32(row[f.Offset:], math.Float32bits(v))
}

// Float64 decodes a float64 field.
func (f Field) Float64(row []byte) float64 {
	return math.Float64frombits(native.Uint64(row[f.Offset:]))
}

// PutFloat64 encodes a float64 field bit-for-bit.
func (f Field) PutFloat64(row []byte, v float64) {
	native.PutUint64(row[f.Offset:], math.Float64bits(v))
}

// Int32 decodes an int32 field.
func (f Field) Int32(row []byte) int32 {
	return int32(native.Uint32(row[f.Offset:]))
}

// PutInt32 encodes an int32 field.
func (f Field) PutInt32(row []byte, v int32) {
	native.PutUint32(row[f.Offset:], uint32(v))
}

// Int64 decodes an int64 field.
func (f Field) Int64(row []byte) int64 {
	return int64(native.Uint64(row[f.Offset:]))
}

// PutInt64 encodes an int64 field.
func (f Field) PutInt64(row []byte, v int64) {
	native.PutUint64(row[f.Offset:], uint64(v))
}
