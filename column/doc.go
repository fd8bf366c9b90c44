// Package column implements growable, fixed-width columns over segments.
//
// A Column[T] stores one element per row in a single contiguous segment. Its
// Codec[T] decides how a value maps to element bytes and which bit pattern
// marks a row as absent. The same growth logic serves every element type:
//
//	col, err := column.NewFloat32(segment.NewHeapAllocator(), 2) // capacity 20
//	v, ok := col.Get(5)                                          // 0, false
//	col.Set(5, 3.14)
//	grew, err := col.EnsureCapacity(25)                          // capacity 250
//
// # Growth
//
// EnsureCapacity over-allocates by the growth factor (10 by default) so an
// append-style write pattern copies each byte a bounded number of times.
// ResizeTo allocates the new segment, stamps the absent sentinel over the new
// rows, copies the old rows, and only then swaps the backing segment. If the
// allocator fails, the column is left exactly as it was.
//
// # Absence
//
// Absence is a property of stored bytes. New rows read back absent until they
// are written. Writing the sentinel (for float columns, any NaN) is the same
// as marking the row absent.
//
// # Bounds
//
// Get and Set panic with an *OutOfBoundsError for indexes outside
// [0, Capacity()). Callers grow the column before writing.
//
// # Thread Safety
//
// A column supports one writer. Concurrent Set calls on disjoint rows below
// the current capacity touch disjoint bytes, but growth must never overlap
// any other access to the same column.
package column
