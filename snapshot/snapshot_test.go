package snapshot

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/hupe1980/featcol/blobstore"
	"github.com/hupe1980/featcol/column"
	"github.com/hupe1980/featcol/features"
	"github.com/hupe1980/featcol/internal/fs"
	"github.com/hupe1980/featcol/internal/resource"
	"github.com/hupe1980/featcol/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSparseColumn(t *testing.T) *column.Float32Column {
	t.Helper()
	col, err := column.NewFloat32(segment.NewHeapAllocator(), 100)
	require.NoError(t, err)
	for i := 0; i < col.Capacity(); i += 7 {
		col.Set(i, float32(i)*0.5)
	}
	return col
}

func TestWriteRead_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for storeName, store := range map[string]blobstore.BlobStore{
			"memory": blobstore.NewMemoryStore(),
			"local":  blobstore.NewLocalStore(t.TempDir()),
		} {
			t.Run(c.String()+"/"+storeName, func(t *testing.T) {
				src := newSparseColumn(t)

				h, err := Write(ctx, store, "rt.fcol", src, Options{Compression: c})
				require.NoError(t, err)
				assert.Equal(t, c, h.Compression, "sparse columns compress well")
				assert.Equal(t, uint64(src.Capacity()), h.Rows)
				assert.Equal(t, uint64(len(src.Bytes())), h.RawSize)

				dst, err := column.NewFloat32(segment.NewHeapAllocator(), 0)
				require.NoError(t, err)

				h2, err := Read(ctx, store, "rt.fcol", dst, Options{})
				require.NoError(t, err)
				assert.Equal(t, h, h2)

				require.Equal(t, src.Capacity(), dst.Capacity())
				assert.Equal(t, src.Bytes(), dst.Bytes())
				assert.Equal(t, src.PresentCount(), dst.PresentCount())

				hdr, err := ReadHeader(ctx, store, "rt.fcol")
				require.NoError(t, err)
				assert.Equal(t, h, hdr)
			})
		}
	}
}

func TestEncode_IncompressibleFallsBackToNone(t *testing.T) {
	col, err := column.NewInt64(segment.NewHeapAllocator(), 100)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < col.Capacity(); i++ {
		col.Set(i, rng.Int64())
	}

	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		data, h, err := Encode(col, c)
		require.NoError(t, err)
		assert.Equal(t, CompressionNone, h.Compression)
		assert.Equal(t, h.RawSize, h.StoredSize)
		assert.Len(t, data, HeaderSize+len(col.Bytes()))
	}
}

func TestEncode_EmptyColumn(t *testing.T) {
	col, err := column.NewFloat64(segment.NewHeapAllocator(), 0)
	require.NoError(t, err)

	data, h, err := Encode(col, CompressionZSTD)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), h.Rows)
	assert.Len(t, data, HeaderSize)

	h2, raw, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, h, h2)
	assert.Empty(t, raw)
}

func TestDecode_Corruption(t *testing.T) {
	data, _, err := Encode(newSparseColumn(t), CompressionLZ4)
	require.NoError(t, err)

	mutate := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), data...)
		return f(b)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", data[:HeaderSize-1]},
		{"bad magic", mutate(func(b []byte) []byte { b[0] = 'X'; return b })},
		{"header bit flip", mutate(func(b []byte) []byte { b[17] ^= 0x01; return b })},
		{"truncated payload", data[:len(data)-1]},
		{"trailing bytes", append(append([]byte(nil), data...), 0)},
		{"payload bit flip", mutate(func(b []byte) []byte { b[len(b)-3] ^= 0x40; return b })},
		{"raw size above limit", forge(Header{Compression: CompressionLZ4, ElementWidth: 4, Rows: 1 << 60, RawSize: 1 << 62, StoredSize: 4}, make([]byte, 4))},
		{"lz4 expansion beyond bound", forge(Header{Compression: CompressionLZ4, ElementWidth: 4, Rows: 1 << 20, RawSize: 4 << 20, StoredSize: 4}, make([]byte, 4))},
		{"zstd raw size without frame", forge(Header{Compression: CompressionZSTD, ElementWidth: 4, Rows: 1 << 37, RawSize: 1 << 39, StoredSize: 4}, make([]byte, 4))},
		{"zstd frame size mismatch", zstdSizeMismatch(t)},
		{"unknown compression", forge(Header{Compression: Compression(9), ElementWidth: 4, Rows: 1, RawSize: 4, StoredSize: 4}, make([]byte, 4))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _, err := Decode(tt.data)
				assert.ErrorIs(t, err, ErrCorrupt)
			})
		})
	}
}

// forge builds an image with a correctly checksummed header.
func forge(h Header, payload []byte) []byte {
	h.Version = Version
	h.ByteOrder = NativeByteOrder
	b := make([]byte, HeaderSize, HeaderSize+len(payload))
	h.put(b)
	return append(b, payload...)
}

func zstdSizeMismatch(t *testing.T) []byte {
	t.Helper()
	data, h, err := Encode(newSparseColumn(t), CompressionZSTD)
	require.NoError(t, err)
	require.Equal(t, CompressionZSTD, h.Compression)

	h.Rows *= 2
	h.RawSize *= 2
	return forge(h, data[HeaderSize:])
}

func TestEncode_HighlyCompressibleRoundTrip(t *testing.T) {
	// An all-absent column compresses far better than typical data.
	col, err := column.NewFloat32(segment.NewHeapAllocator(), 1<<20, column.WithGrowthFactor(1))
	require.NoError(t, err)

	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			data, h, err := Encode(col, c)
			require.NoError(t, err)
			require.Equal(t, c, h.Compression)

			got, raw, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, h, got)
			assert.Equal(t, col.Bytes(), raw)
		})
	}
}

func TestRead_LayoutMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Write(ctx, store, "f32", newSparseColumn(t), Options{})
	require.NoError(t, err)

	// Same width, different kind.
	i32, err := column.NewInt32(segment.NewHeapAllocator(), 0)
	require.NoError(t, err)
	_, err = Read(ctx, store, "f32", i32, Options{})
	assert.ErrorIs(t, err, column.ErrLayoutMismatch)
	assert.Equal(t, 0, i32.Capacity(), "nothing loaded")

	scores, err := features.NewAlignmentScoreColumn(segment.NewHeapAllocator(), 0)
	require.NoError(t, err)
	_, err = Read(ctx, store, "f32", scores, Options{})
	assert.ErrorIs(t, err, column.ErrLayoutMismatch)
}

func TestHeader_CheckByteOrder(t *testing.T) {
	col := newSparseColumn(t)
	_, h, err := Encode(col, CompressionNone)
	require.NoError(t, err)

	require.NoError(t, h.Check(col.ElementLayout()))

	if NativeByteOrder == LittleEndian {
		h.ByteOrder = BigEndian
	} else {
		h.ByteOrder = LittleEndian
	}
	assert.ErrorIs(t, h.Check(col.ElementLayout()), ErrByteOrder)
}

func TestHeader_MarshalRoundTrip(t *testing.T) {
	h := Header{
		Version:      Version,
		ByteOrder:    LittleEndian,
		Compression:  CompressionZSTD,
		ElementWidth: 36,
		Fingerprint:  0xDEADBEEF,
		Rows:         10,
		RawSize:      360,
		StoredSize:   42,
		Checksum:     7,
	}
	b, err := h.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, HeaderSize)
	assert.Equal(t, "FCOL", string(b[:4]))

	var got Header
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, h, got)

	h.RawSize = 361
	b, _ = h.MarshalBinary()
	assert.ErrorIs(t, got.UnmarshalBinary(b), ErrCorrupt, "raw size must be rows*width")

	h.RawSize = 360
	h.Version = 9
	b, _ = h.MarshalBinary()
	assert.ErrorIs(t, got.UnmarshalBinary(b), ErrCorrupt)
}

func TestRead_NotFound(t *testing.T) {
	col := newSparseColumn(t)
	_, err := Read(context.Background(), blobstore.NewMemoryStore(), "missing", col, Options{})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	_, err = ReadHeader(context.Background(), blobstore.NewMemoryStore(), "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestWrite_IOLimitHonorsContext(t *testing.T) {
	store := blobstore.NewMemoryStore()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 16})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Write(ctx, store, "throttled", newSparseColumn(t), Options{Controller: rc})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names, "aborted snapshot leaves no blob")
}

func TestWrite_IOLimited(t *testing.T) {
	store := blobstore.NewMemoryStore()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})

	col := newSparseColumn(t)
	_, err := Write(context.Background(), store, "ok", col, Options{Controller: rc, Compression: CompressionZSTD})
	require.NoError(t, err)

	dst, err := column.NewFloat32(segment.NewHeapAllocator(), 0)
	require.NoError(t, err)
	_, err = Read(context.Background(), store, "ok", dst, Options{Controller: rc})
	require.NoError(t, err)
	assert.Equal(t, col.Bytes(), dst.Bytes())
}

func TestWrite_FailedCommitLeavesNoBlob(t *testing.T) {
	ctx := context.Background()
	col := newSparseColumn(t)

	for _, fault := range []fs.Fault{
		{FailAfterBytes: HeaderSize},
		{FailAfterBytes: -1, FailOnSync: true},
		{FailAfterBytes: -1, FailOnRename: true},
	} {
		ffs := fs.NewFaultyFS(nil)
		ffs.AddRule("rt.fcol", fault)
		store := blobstore.NewLocalStore(t.TempDir(), blobstore.WithFileSystem(ffs))

		_, err := Write(ctx, store, "rt.fcol", col, Options{Compression: CompressionNone})
		require.ErrorIs(t, err, fs.ErrInjected)

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, names)
	}
}

func TestAlignmentScoreSnapshot(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())

	src, err := features.NewAlignmentScoreColumn(segment.NewHeapAllocator(), 2)
	require.NoError(t, err)
	rec := features.AlignmentScore{Rate: 0.5, AlignedFeatures: 4, MaxMzDelta: math.Pi}
	src.Set(3, rec)

	_, err = Write(ctx, store, "scores.fcol", src, Options{Compression: CompressionZSTD})
	require.NoError(t, err)

	dst, err := features.NewAlignmentScoreColumn(segment.NewMmapAllocator(), 0)
	require.NoError(t, err)
	defer dst.Close()

	_, err = Read(ctx, store, "scores.fcol", dst, Options{})
	require.NoError(t, err)

	got, ok := dst.Get(3)
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.True(t, dst.IsAbsent(4))
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}
