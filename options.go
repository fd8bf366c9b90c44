package featcol

import (
	"fmt"

	"github.com/hupe1980/featcol/blobstore"
	"github.com/hupe1980/featcol/column"
	"github.com/hupe1980/featcol/segment"
	"github.com/hupe1980/featcol/snapshot"
)

type options struct {
	allocator        segment.Allocator
	offHeap          bool
	memoryLimit      int64
	growthFactor     int
	logger           *Logger
	metricsCollector MetricsCollector
	blobStore        blobstore.BlobStore
	compression      snapshot.Compression
	ioLimit          int64
	snapshotWorkers  int64
}

func defaultOptions() options {
	return options{
		growthFactor:     column.DefaultGrowthFactor,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		compression:      snapshot.CompressionLZ4,
		snapshotWorkers:  4,
	}
}

func (o *options) validate() error {
	if o.memoryLimit < 0 {
		return fmt.Errorf("%w: negative memory limit %d", ErrInvalidOption, o.memoryLimit)
	}
	if o.ioLimit < 0 {
		return fmt.Errorf("%w: negative IO limit %d", ErrInvalidOption, o.ioLimit)
	}
	if o.snapshotWorkers < 1 {
		return fmt.Errorf("%w: snapshot workers must be positive, got %d", ErrInvalidOption, o.snapshotWorkers)
	}
	if o.growthFactor < 1 {
		return fmt.Errorf("%w: growth factor must be at least 1, got %d", ErrInvalidOption, o.growthFactor)
	}
	return nil
}

// Option configures Open.
type Option func(*options)

// WithAllocator sets the allocator that provides column backing memory.
// The default is a segment.HeapAllocator. Every allocator is wrapped in a
// budget allocator so MemoryUsage and WithMemoryLimit apply.
func WithAllocator(a segment.Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithOffHeap backs columns with anonymous memory mappings instead of the
// Go heap. Ignored if WithAllocator is given.
func WithOffHeap() Option {
	return func(o *options) {
		o.offHeap = true
	}
}

// WithMemoryLimit caps the bytes held by all column segments together.
// Growth that would exceed the limit fails with segment.ErrAllocationFailed.
// Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithGrowthFactor sets the over-allocation multiplier for columns created
// by the Store. The default is column.DefaultGrowthFactor.
func WithGrowthFactor(factor int) Option {
	return func(o *options) {
		o.growthFactor = factor
	}
}

// WithLogger sets the logger. If nil, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink. If nil, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithBlobStore enables Snapshot and Restore against store.
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobStore = store
	}
}

// WithCompression sets the snapshot payload codec. The default is LZ4.
func WithCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithIOLimit throttles snapshot IO to bytesPerSec. Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithSnapshotWorkers bounds the number of concurrent uploads in
// SnapshotAll. The default is 4.
func WithSnapshotWorkers(n int64) Option {
	return func(o *options) {
		o.snapshotWorkers = n
	}
}
