package column

import (
	"github.com/hupe1980/featcol/layout"
	"github.com/hupe1980/featcol/segment"
)

var (
	float32Layout = layout.Scalar(layout.Float32)
	float64Layout = layout.Scalar(layout.Float64)
	int32Layout   = layout.Scalar(layout.Int32)
	int64Layout   = layout.Scalar(layout.Int64)
)

// Float32Codec encodes nullable float32 rows. Absent is the canonical quiet
// NaN; writing any NaN marks the row absent.
type Float32Codec struct{}

// Layout implements Codec.
func (Float32Codec) Layout() *layout.Descriptor { return float32Layout }

// Encode implements Codec.
func (Float32Codec) Encode(row []byte, v float32) {
	f := float32Layout.Presence()
	f.PutFloat32(row, v)
	f.Canonicalize(row)
}

// Decode implements Codec.
func (Float32Codec) Decode(row []byte) float32 { return float32Layout.Presence().Float32(row) }

// IsAbsent implements Codec.
func (Float32Codec) IsAbsent(row []byte) bool { return float32Layout.Presence().IsAbsent(row) }

// MarkAbsent implements Codec.
func (Float32Codec) MarkAbsent(row []byte) { float32Layout.Presence().MarkAbsent(row) }

// Float64Codec encodes nullable float64 rows. Absent is the canonical quiet
// NaN; writing any NaN marks the row absent.
type Float64Codec struct{}

// Layout implements Codec.
func (Float64Codec) Layout() *layout.Descriptor { return float64Layout }

// Encode implements Codec.
func (Float64Codec) Encode(row []byte, v float64) {
	f := float64Layout.Presence()
	f.PutFloat64(row, v)
	f.Canonicalize(row)
}

// Decode implements Codec.
func (Float64Codec) Decode(row []byte) float64 { return float64Layout.Presence().Float64(row) }

// IsAbsent implements Codec.
func (Float64Codec) IsAbsent(row []byte) bool { return float64Layout.Presence().IsAbsent(row) }

// MarkAbsent implements Codec.
func (Float64Codec) MarkAbsent(row []byte) { float64Layout.Presence().MarkAbsent(row) }

// Int32Codec encodes nullable int32 rows. math.MinInt32 is reserved as absent.
type Int32Codec struct{}

// Layout implements Codec.
func (Int32Codec) Layout() *layout.Descriptor { return int32Layout }

// Encode implements Codec.
func (Int32Codec) Encode(row []byte, v int32) { int32Layout.Presence().PutInt32(row, v) }

// Decode implements Codec.
func (Int32Codec) Decode(row []byte) int32 { return int32Layout.Presence().Int32(row) }

// IsAbsent implements Codec.
func (Int32Codec) IsAbsent(row []byte) bool { return int32Layout.Presence().IsAbsent(row) }

// MarkAbsent implements Codec.
func (Int32Codec) MarkAbsent(row []byte) { int32Layout.Presence().MarkAbsent(row) }

// Int64Codec encodes nullable int64 rows. math.MinInt64 is reserved as absent.
type Int64Codec struct{}

// Layout implements Codec.
func (Int64Codec) Layout() *layout.Descriptor { return int64Layout }

// Encode implements Codec.
func (Int64Codec) Encode(row []byte, v int64) { int64Layout.Presence().PutInt64(row, v) }

// Decode implements Codec.
func (Int64Codec) Decode(row []byte) int64 { return int64Layout.Presence().Int64(row) }

// IsAbsent implements Codec.
func (Int64Codec) IsAbsent(row []byte) bool { return int64Layout.Presence().IsAbsent(row) }

// MarkAbsent implements Codec.
func (Int64Codec) MarkAbsent(row []byte) { int64Layout.Presence().MarkAbsent(row) }

// Scalar column aliases.
type (
	Float32Column = Column[float32]
	Float64Column = Column[float64]
	Int32Column   = Column[int32]
	Int64Column   = Column[int64]
)

// NewFloat32 creates a nullable float32 column.
func NewFloat32(alloc segment.Allocator, initialCapacity int, opts ...Option) (*Float32Column, error) {
	return New[float32](alloc, Float32Codec{}, initialCapacity, opts...)
}

// NewFloat64 creates a nullable float64 column.
func NewFloat64(alloc segment.Allocator, initialCapacity int, opts ...Option) (*Float64Column, error) {
	return New[float64](alloc, Float64Codec{}, initialCapacity, opts...)
}

// NewInt32 creates a nullable int32 column.
func NewInt32(alloc segment.Allocator, initialCapacity int, opts ...Option) (*Int32Column, error) {
	return New[int32](alloc, Int32Codec{}, initialCapacity, opts...)
}

// NewInt64 creates a nullable int64 column.
func NewInt64(alloc segment.Allocator, initialCapacity int, opts ...Option) (*Int64Column, error) {
	return New[int64](alloc, Int64Codec{}, initialCapacity, opts...)
}
