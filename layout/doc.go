// Package layout describes the binary shape of a column element.
//
// A Descriptor is an immutable, validated table of named fields, each with a
// kind, a byte offset and an alignment-exempt flag. Descriptors are built once
// per column type, usually as package-level variables:
//
//	var scoreLayout = layout.NewBuilder("AlignmentScore").
//	    Add("rate", layout.Float32).
//	    Add("alignedFeatures", layout.Int32).
//	    AddUnaligned("maxMzDelta", layout.Float64).
//	    MustBuild()
//
// The builder packs fields back to back in declaration order and never inserts
// padding on its own. A field whose packed offset is not a multiple of its
// natural alignment must be declared with AddUnaligned; otherwise Build fails
// with a ViolationError. Explicit padding is available through Pad.
//
// # Encoding
//
// All values are stored in native byte order. Field accessors (Float32,
// PutFloat64, ...) read and write a single field inside a row slice and work
// at any offset, so unaligned fields cost an unaligned load at most.
//
// # Presence
//
// The first declared field is the presence field. Every kind reserves one bit
// pattern as its absent sentinel (canonical quiet NaN for floats, the minimum
// value for signed integers). A row is absent iff its presence field holds the
// sentinel; there is no separate bitmap.
package layout
