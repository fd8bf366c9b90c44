package layout

import (
	"encoding/binary"
	"strings"

	"github.com/hupe1980/featcol/internal/hash"
)

// Descriptor is the immutable layout of a column element.
type Descriptor struct {
	name   string
	width  int
	fields []Field
	index  map[string]int
	fp     uint32
}

// New validates an explicit field table and returns its Descriptor.
//
// Offsets must be non-decreasing in declaration order, fields must not overlap,
// width must cover every field, and any field at an offset that is not a
// multiple of its natural alignment must set Unaligned.
func New(name string, width int, fields ...Field) (*Descriptor, error) {
	if len(fields) == 0 {
		return nil, violation(name, "", "no fields declared")
	}

	d := &Descriptor{
		name:   name,
		width:  width,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(d.fields, fields)

	end := 0
	for i, f := range d.fields {
		if f.Name == "" {
			return nil, violation(name, "", "field %d has no name", i)
		}
		if _, dup := d.index[f.Name]; dup {
			return nil, violation(name, f.Name, "declared twice")
		}
		if !f.Kind.Valid() {
			return nil, violation(name, f.Name, "invalid kind %d", f.Kind)
		}
		if f.Offset < 0 {
			return nil, violation(name, f.Name, "negative offset %d", f.Offset)
		}
		if f.Offset < end {
			return nil, violation(name, f.Name, "offset %d overlaps previous field ending at %d", f.Offset, end)
		}
		if !f.Aligned() && !f.Unaligned {
			return nil, violation(name, f.Name, "offset %d is not %d-byte aligned and the field is not declared unaligned",
				f.Offset, f.Kind.Alignment())
		}
		d.index[f.Name] = i
		end = f.End()
	}

	if width < end {
		return nil, violation(name, "", "element width %d does not cover fields ending at %d", width, end)
	}

	d.fp = d.fingerprint()
	return d, nil
}

// Scalar returns the single-field descriptor of a scalar column of kind k.
func Scalar(k Kind) *Descriptor {
	d, err := New(k.String(), k.Width(), Field{Name: "value", Kind: k})
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the descriptor name.
func (d *Descriptor) Name() string { return d.name }

// Width returns the element width in bytes.
func (d *Descriptor) Width() int { return d.width }

// NumFields returns the number of declared fields.
func (d *Descriptor) NumFields() int { return len(d.fields) }

// Field returns the i-th declared field.
func (d *Descriptor) Field(i int) Field { return d.fields[i] }

// Fields returns a copy of the field table in declaration order.
func (d *Descriptor) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Lookup returns the field with the given name.
func (d *Descriptor) Lookup(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// Presence returns the first declared field, whose sentinel marks absent rows.
func (d *Descriptor) Presence() Field { return d.fields[0] }

// Padding returns the number of element bytes not covered by any field.
func (d *Descriptor) Padding() int {
	used := 0
	for _, f := range d.fields {
		used += f.Width()
	}
	return d.width - used
}

// Fingerprint identifies the binary shape of the element.
// Two descriptors with equal width and equal field tables share a fingerprint,
// regardless of descriptor name.
func (d *Descriptor) Fingerprint() uint32 { return d.fp }

// Equal reports whether both descriptors describe the same binary shape.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.width != other.width || len(d.fields) != len(other.fields) {
		return false
	}
	for i := range d.fields {
		if d.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

func (d *Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString(d.name)
	sb.WriteString("{")
	for i, f := range d.fields {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (d *Descriptor) fingerprint() uint32 {
	h := hash.NewCRC32C()
	var buf [8]byte

	binary.LittleEndian.PutUint32(buf[:4], uint32(d.width))
	_, _ = h.Write(buf[:4])
	for _, f := range d.fields {
		_, _ = h.Write([]byte(f.Name))
		buf[0] = byte(f.Kind)
		buf[1] = 0
		if f.Unaligned {
			buf[1] = 1
		}
		binary.LittleEndian.PutUint32(buf[2:6], uint32(f.Offset))
		_, _ = h.Write(buf[:6])
	}
	return h.Sum32()
}
