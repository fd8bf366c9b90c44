package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		kind  Kind
		width int
		name  string
	}{
		{Float32, 4, "float32"},
		{Float64, 8, "float64"},
		{Int32, 4, "int32"},
		{Int64, 8, "int64"},
		{Invalid, 0, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.width, tt.kind.Width())
			assert.Equal(t, tt.width, tt.kind.Alignment())
			assert.Equal(t, tt.width > 0, tt.kind.Valid())
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Len(t, tt.kind.Sentinel(), tt.width)
		})
	}
}

func TestField_Sentinels(t *testing.T) {
	for _, k := range []Kind{Float32, Float64, Int32, Int64} {
		t.Run(k.String(), func(t *testing.T) {
			f := Field{Name: "x", Kind: k, Offset: 3, Unaligned: true}
			row := make([]byte, 16)

			assert.False(t, f.IsAbsent(row), "zero bytes are a present value")
			f.MarkAbsent(row)
			assert.True(t, f.IsAbsent(row))
			assert.Equal(t, k.Sentinel(), row[3:3+k.Width()])
			assert.Zero(t, row[0], "bytes before the field are untouched")
		})
	}
}

func TestField_IntegerSentinelBitPatterns(t *testing.T) {
	row := make([]byte, 8)

	i32 := Field{Name: "n", Kind: Int32}
	i32.MarkAbsent(row)
	assert.Equal(t, Int32Sentinel, i32.Int32(row))
	assert.Equal(t, int32(math.MinInt32), i32.Int32(row))
	i32.PutInt32(row, math.MinInt32+1)
	assert.False(t, i32.IsAbsent(row))
	i32.PutInt32(row, math.MinInt32)
	assert.True(t, i32.IsAbsent(row))

	i64 := Field{Name: "n", Kind: Int64}
	i64.MarkAbsent(row)
	assert.Equal(t, Int64Sentinel, i64.Int64(row))
	i64.PutInt64(row, math.MaxInt64)
	assert.False(t, i64.IsAbsent(row))
	i64.PutInt64(row, math.MinInt64)
	assert.True(t, i64.IsAbsent(row))
}

func TestField_Canonicalize(t *testing.T) {
	row := make([]byte, 12)
	f32 := Field{Name: "a", Kind: Float32}
	f64 := Field{Name: "b", Kind: Float64, Offset: 4}

	// A NaN with a payload is not the sentinel until canonicalized.
	f32.PutFloat32(row, math.Float32frombits(0x7FC00001))
	f64.PutFloat64(row, math.Float64frombits(0xFFF8000000000001))
	assert.False(t, f32.IsAbsent(row))
	assert.False(t, f64.IsAbsent(row))

	f32.Canonicalize(row)
	f64.Canonicalize(row)
	assert.True(t, f32.IsAbsent(row))
	assert.True(t, f64.IsAbsent(row))

	// Regular values are left alone.
	f32.PutFloat32(row, 1.5)
	f32.Canonicalize(row)
	assert.Equal(t, float32(1.5), f32.Float32(row))

	i32 := Field{Name: "c", Kind: Int32}
	i32.PutInt32(row, 42)
	i32.Canonicalize(row)
	assert.Equal(t, int32(42), i32.Int32(row))
}

func TestField_Accessors(t *testing.T) {
	row := make([]byte, 32)

	f := Field{Kind: Float32, Offset: 1, Unaligned: true}
	f.PutFloat32(row, 3.14)
	assert.Equal(t, float32(3.14), f.Float32(row))

	d := Field{Kind: Float64, Offset: 5, Unaligned: true}
	d.PutFloat64(row, 0.0003)
	assert.Equal(t, 0.0003, d.Float64(row))

	i := Field{Kind: Int32, Offset: 13, Unaligned: true}
	i.PutInt32(row, -7)
	assert.Equal(t, int32(-7), i.Int32(row))

	l := Field{Kind: Int64, Offset: 17, Unaligned: true}
	l.PutInt64(row, math.MaxInt64)
	assert.Equal(t, int64(math.MaxInt64), l.Int64(row))

	// Neighbors survive each other's writes.
	assert.Equal(t, float32(3.14), f.Float32(row))
	assert.Equal(t, 0.0003, d.Float64(row))
}

func TestBuilder_PackedOffsets(t *testing.T) {
	d, err := NewBuilder("AlignmentScore").
		Add("rate", Float32).
		Add("alignedFeatures", Int32).
		Add("extraFeatures", Int32).
		Add("weightedDistanceScore", Float32).
		Add("mzPpmDelta", Float32).
		AddUnaligned("maxMzDelta", Float64).
		Add("maxRtDelta", Float32).
		Add("maxMobilityDelta", Float32).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 36, d.Width())
	assert.Equal(t, 8, d.NumFields())
	assert.Zero(t, d.Padding())

	var offsets []int
	for _, f := range d.Fields() {
		offsets = append(offsets, f.Offset)
	}
	assert.Equal(t, []int{0, 4, 8, 12, 16, 20, 28, 32}, offsets)

	f, ok := d.Lookup("maxMzDelta")
	require.True(t, ok)
	assert.True(t, f.Unaligned)
	assert.False(t, f.Aligned())

	assert.Equal(t, "rate", d.Presence().Name)
	_, ok = d.Lookup("missing")
	assert.False(t, ok)
}

func TestBuilder_UndeclaredMisalignment(t *testing.T) {
	_, err := NewBuilder("bad").
		Add("a", Float32).
		Add("b", Float64).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLayoutViolation)

	var ve *ViolationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bad", ve.Layout)
	assert.Equal(t, "b", ve.Field)
}

func TestBuilder_Pad(t *testing.T) {
	d, err := NewBuilder("padded").
		Add("a", Float32).
		Pad(4).
		Add("b", Float64).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 16, d.Width())
	assert.Equal(t, 4, d.Padding())
	assert.Equal(t, 8, d.Field(1).Offset)
	assert.True(t, d.Field(1).Aligned())
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Descriptor, error)
	}{
		{"no fields", func() (*Descriptor, error) { return NewBuilder("x").Build() }},
		{"invalid kind", func() (*Descriptor, error) { return NewBuilder("x").Add("a", Invalid).Build() }},
		{"negative pad", func() (*Descriptor, error) { return NewBuilder("x").Add("a", Int32).Pad(-1).Build() }},
		{"duplicate", func() (*Descriptor, error) { return NewBuilder("x").Add("a", Int32).Add("a", Int32).Build() }},
		{"empty name", func() (*Descriptor, error) { return NewBuilder("x").Add("", Int32).Build() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			assert.ErrorIs(t, err, ErrLayoutViolation)
		})
	}
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewBuilder("x").Add("a", Float32).Add("b", Int64).MustBuild()
	})
}

func TestNew_ExplicitOffsets(t *testing.T) {
	t.Run("valid with trailing padding", func(t *testing.T) {
		d, err := New("explicit", 16,
			Field{Name: "a", Kind: Int32, Offset: 0},
			Field{Name: "b", Kind: Float64, Offset: 8},
		)
		require.NoError(t, err)
		assert.Equal(t, 16, d.Width())
		assert.Equal(t, 4, d.Padding())
	})

	t.Run("overlap", func(t *testing.T) {
		_, err := New("explicit", 16,
			Field{Name: "a", Kind: Float64, Offset: 0},
			Field{Name: "b", Kind: Int32, Offset: 4},
		)
		assert.ErrorIs(t, err, ErrLayoutViolation)
	})

	t.Run("decreasing offsets", func(t *testing.T) {
		_, err := New("explicit", 16,
			Field{Name: "a", Kind: Int32, Offset: 8},
			Field{Name: "b", Kind: Int32, Offset: 0},
		)
		assert.ErrorIs(t, err, ErrLayoutViolation)
	})

	t.Run("width too small", func(t *testing.T) {
		_, err := New("explicit", 6,
			Field{Name: "a", Kind: Int32, Offset: 0},
			Field{Name: "b", Kind: Int32, Offset: 4},
		)
		assert.ErrorIs(t, err, ErrLayoutViolation)
	})

	t.Run("negative offset", func(t *testing.T) {
		_, err := New("explicit", 8, Field{Name: "a", Kind: Int32, Offset: -4})
		assert.ErrorIs(t, err, ErrLayoutViolation)
	})
}

func TestScalar(t *testing.T) {
	d := Scalar(Float32)
	assert.Equal(t, 4, d.Width())
	assert.Equal(t, "float32", d.Name())
	assert.Equal(t, Float32, d.Presence().Kind)
	assert.Equal(t, "float32{value:float32@0}", d.String())
}

func TestDescriptor_FingerprintAndEqual(t *testing.T) {
	a := NewBuilder("a").Add("x", Float32).Add("y", Int32).MustBuild()
	b := NewBuilder("b").Add("x", Float32).Add("y", Int32).MustBuild()
	c := NewBuilder("c").Add("x", Float32).Add("z", Int32).MustBuild()
	d := NewBuilder("d").Add("x", Int32).Add("y", Int32).MustBuild()

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "name does not affect shape")
	assert.True(t, a.Equal(b))

	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
	assert.False(t, a.Equal(d))

	assert.False(t, a.Equal(nil))
}

func TestDescriptor_FieldsIsCopy(t *testing.T) {
	d := NewBuilder("x").Add("a", Int32).MustBuild()
	fields := d.Fields()
	fields[0].Offset = 99
	assert.Equal(t, 0, d.Field(0).Offset)
}
