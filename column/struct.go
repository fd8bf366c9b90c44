package column

import (
	"errors"

	"github.com/hupe1980/featcol/layout"
)

// StructCodec encodes composite records field by field against a Descriptor.
//
// The first declared field is the presence field. Absent rows carry its
// sentinel and nothing else is defined about their bytes.
type StructCodec[T any] struct {
	desc     *layout.Descriptor
	presence layout.Field
	encode   func(row []byte, v *T)
	decode   func(row []byte, v *T)
}

// NewStructCodec builds a codec from a descriptor and per-record encode and
// decode functions. decode is only called for present rows.
func NewStructCodec[T any](desc *layout.Descriptor, encode, decode func(row []byte, v *T)) (*StructCodec[T], error) {
	if desc == nil {
		return nil, errors.New("column: nil layout")
	}
	if encode == nil || decode == nil {
		return nil, errors.New("column: struct codec needs encode and decode functions")
	}
	return &StructCodec[T]{
		desc:     desc,
		presence: desc.Presence(),
		encode:   encode,
		decode:   decode,
	}, nil
}

// Layout implements Codec.
func (c *StructCodec[T]) Layout() *layout.Descriptor { return c.desc }

// Encode implements Codec. A NaN in a float presence field is stored as the
// canonical sentinel, leaving the row absent.
func (c *StructCodec[T]) Encode(row []byte, v T) {
	c.encode(row, &v)
	c.presence.Canonicalize(row)
}

// Decode implements Codec.
func (c *StructCodec[T]) Decode(row []byte) T {
	var v T
	c.decode(row, &v)
	return v
}

// IsAbsent implements Codec. Only the presence field is inspected.
func (c *StructCodec[T]) IsAbsent(row []byte) bool { return c.presence.IsAbsent(row) }

// MarkAbsent implements Codec. Only the presence field is written.
func (c *StructCodec[T]) MarkAbsent(row []byte) { c.presence.MarkAbsent(row) }
