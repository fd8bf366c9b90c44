// Package featcol provides growable, nullable, fixed-width columns for
// per-feature scientific records.
//
// Each column is one contiguous segment of memory holding Capacity() rows of
// a fixed element width. Absence is encoded in-band: the first field of every
// element is the presence field, and a reserved sentinel bit pattern in it
// marks the row absent. There is no separate null bitmap.
//
// # Quick Start
//
//	fs, _ := featcol.Open()
//	defer fs.Close()
//
//	rt, _ := fs.Float32("rt", 2) // capacity 20
//	rt.Set(5, 3.14)
//	v, ok := rt.Get(5)          // 3.14, true
//	_, ok = rt.Get(6)           // absent
//
//	rt.EnsureCapacity(25)       // grows to 250 rows, row 5 preserved
//
// # Sentinels
//
//	float32  canonical quiet NaN 0x7FC00000 (any NaN written becomes absent)
//	float64  canonical quiet NaN 0x7FF8000000000000
//	int32    math.MinInt32
//	int64    math.MinInt64
//
// # Growth
//
// EnsureCapacity(n) is a no-op when n <= Capacity(). Otherwise the column
// allocates n times the growth factor (default 10) rows, stamps the sentinel
// over the new rows, copies the old bytes and releases the old segment.
// Columns never shrink. A failed allocation leaves the column unchanged.
//
// # Memory
//
// Columns live on the Go heap by default. WithOffHeap backs them with
// anonymous memory mappings instead, and WithMemoryLimit caps the total
// bytes across all columns of a Store:
//
//	fs, _ := featcol.Open(featcol.WithOffHeap(), featcol.WithMemoryLimit(1<<30))
//
// # Record Columns
//
// Composite records use a packed layout whose first field is the presence
// field. features.AlignmentScore is the built-in example; custom records
// declare a layout.Descriptor and a column.StructCodec:
//
//	scores, _ := fs.AlignmentScores("alignment", 1)
//	scores.Set(0, features.AlignmentScore{Rate: 0.9, AlignedFeatures: 12})
//	scores.SetAbsent(0)
//
// # Snapshots
//
// With a blob store configured, columns can be saved and restored:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("columns/"))
//	fs, _ := featcol.Open(featcol.WithBlobStore(store), featcol.WithCompression(snapshot.CompressionZSTD))
//	fs.Snapshot(ctx, "rt")
//	fs.Restore(ctx, "rt")
//
// # Concurrency
//
// The Store registry is safe for concurrent use. A single column is not:
// give each column one writer and do not snapshot a column while it is
// being written.
package featcol
