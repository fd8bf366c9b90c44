package column

import "github.com/hupe1980/featcol/layout"

// Codec maps values of type T to element bytes.
//
// Every method receives exactly one element (len(row) == Layout().Width()).
// Decode is only called on rows for which IsAbsent returned false.
type Codec[T any] interface {
	// Layout describes the element bytes.
	Layout() *layout.Descriptor
	// Encode writes v into row. Encoding a value whose presence field equals
	// the sentinel leaves the row absent.
	Encode(row []byte, v T)
	// Decode reads a present row.
	Decode(row []byte) T
	// IsAbsent reports whether row holds the absent sentinel.
	IsAbsent(row []byte) bool
	// MarkAbsent writes the absent sentinel into row.
	MarkAbsent(row []byte)
}
