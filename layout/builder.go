package layout

// Builder assembles a packed Descriptor field by field.
//
// Offsets are assigned in declaration order with no implicit padding. The
// first error is kept and reported by Build; later calls are ignored.
type Builder struct {
	name   string
	offset int
	fields []Field
	err    error
}

// NewBuilder starts a layout with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Add appends a field at the next packed offset.
func (b *Builder) Add(name string, kind Kind) *Builder {
	return b.add(name, kind, false)
}

// AddUnaligned appends a field at the next packed offset and exempts it from
// natural alignment. Use it when padding before the field would be forced.
func (b *Builder) AddUnaligned(name string, kind Kind) *Builder {
	return b.add(name, kind, true)
}

// Pad reserves n bytes at the current offset.
func (b *Builder) Pad(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.err = violation(b.name, "", "negative padding %d", n)
		return b
	}
	b.offset += n
	return b
}

func (b *Builder) add(name string, kind Kind, unaligned bool) *Builder {
	if b.err != nil {
		return b
	}
	if !kind.Valid() {
		b.err = violation(b.name, name, "invalid kind %d", kind)
		return b
	}
	b.fields = append(b.fields, Field{
		Name:      name,
		Kind:      kind,
		Offset:    b.offset,
		Unaligned: unaligned,
	})
	b.offset += kind.Width()
	return b
}

// Build validates the layout. The element width equals the packed size.
func (b *Builder) Build() (*Descriptor, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.name, b.offset, b.fields...)
}

// MustBuild is like Build but panics on error.
// Intended for package-level layout variables.
func (b *Builder) MustBuild() *Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
