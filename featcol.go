package featcol

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/featcol/blobstore"
	"github.com/hupe1980/featcol/column"
	"github.com/hupe1980/featcol/features"
	"github.com/hupe1980/featcol/internal/resource"
	"github.com/hupe1980/featcol/segment"
	"github.com/hupe1980/featcol/snapshot"
	"golang.org/x/sync/errgroup"
)

// SnapshotExt is appended to a column name to form its snapshot blob name.
const SnapshotExt = ".fcol"

// Store is a registry of named columns sharing one allocator, memory budget,
// logger, metrics sink and snapshot target.
//
// The registry is safe for concurrent use. Columns themselves are not: each
// column must have a single writer, and Snapshot must not race with writes
// to the column being saved.
type Store struct {
	mu      sync.RWMutex
	columns map[string]column.Raw
	closed  bool

	alloc   *segment.BudgetAllocator
	rc      *resource.Controller
	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// Open creates an empty Store.
func Open(optFns ...Option) (*Store, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:     o.memoryLimit,
		MaxBackgroundWorkers: o.snapshotWorkers,
		IOLimitBytesPerSec:   o.ioLimit,
	})

	base := o.allocator
	if base == nil {
		if o.offHeap {
			base = segment.NewMmapAllocator()
		} else {
			base = segment.NewHeapAllocator()
		}
	}

	s := &Store{
		columns: make(map[string]column.Raw),
		alloc:   segment.NewBudgetAllocatorWithController(base, rc),
		rc:      rc,
		opts:    o,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}

	s.logger.Debug("store opened",
		"memory_limit", o.memoryLimit,
		"off_heap", o.offHeap,
		"growth_factor", o.growthFactor,
		"compression", o.compression.String(),
	)
	return s, nil
}

// AddColumn creates a column with the given codec and registers it under name.
// The Store's allocator, growth factor, logger and metrics are applied before
// opts, so opts may override them.
func AddColumn[T any](s *Store, name string, codec column.Codec[T], initialCapacity int, opts ...column.Option) (*column.Column[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if _, ok := s.columns[name]; ok {
		return nil, columnError("add", name, ErrColumnExists)
	}

	base := []column.Option{
		column.WithName(name),
		column.WithGrowthFactor(s.opts.growthFactor),
		column.WithLogger(s.logger.Logger),
		column.WithGrowObserver(growRecorder{mc: s.metrics}),
	}
	col, err := column.New[T](s.alloc, codec, initialCapacity, append(base, opts...)...)
	if err != nil {
		return nil, columnError("add", name, err)
	}

	s.columns[name] = col
	s.logger.WithColumn(name).Debug("column added",
		"layout", col.ElementLayout().String(),
		"capacity", col.Capacity(),
	)
	return col, nil
}

// Get returns the column registered under name as a *column.Column[T].
func Get[T any](s *Store, name string) (*column.Column[T], error) {
	raw, err := s.Column(name)
	if err != nil {
		return nil, err
	}
	col, ok := raw.(*column.Column[T])
	if !ok {
		return nil, columnError("get", name, fmt.Errorf("%w: %s", ErrColumnType, raw.ElementLayout().Name()))
	}
	return col, nil
}

// Float32 adds a nullable float32 column.
func (s *Store) Float32(name string, initialCapacity int) (*column.Float32Column, error) {
	return AddColumn[float32](s, name, column.Float32Codec{}, initialCapacity)
}

// Float64 adds a nullable float64 column.
func (s *Store) Float64(name string, initialCapacity int) (*column.Float64Column, error) {
	return AddColumn[float64](s, name, column.Float64Codec{}, initialCapacity)
}

// Int32 adds a nullable int32 column.
func (s *Store) Int32(name string, initialCapacity int) (*column.Int32Column, error) {
	return AddColumn[int32](s, name, column.Int32Codec{}, initialCapacity)
}

// Int64 adds a nullable int64 column.
func (s *Store) Int64(name string, initialCapacity int) (*column.Int64Column, error) {
	return AddColumn[int64](s, name, column.Int64Codec{}, initialCapacity)
}

// AlignmentScores adds a column of alignment score records.
func (s *Store) AlignmentScores(name string, initialCapacity int) (*features.AlignmentScoreColumn, error) {
	return AddColumn[features.AlignmentScore](s, name, features.AlignmentScoreCodec, initialCapacity)
}

// Column returns the column registered under name.
func (s *Store) Column(name string) (column.Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	col, ok := s.columns[name]
	if !ok {
		return nil, columnError("get", name, ErrColumnNotFound)
	}
	return col, nil
}

// Columns returns the registered column names in sorted order.
func (s *Store) Columns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.columns))
	for name := range s.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DropColumn unregisters a column and releases its memory.
func (s *Store) DropColumn(name string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	col, ok := s.columns[name]
	if !ok {
		s.mu.Unlock()
		return columnError("drop", name, ErrColumnNotFound)
	}
	delete(s.columns, name)
	s.mu.Unlock()

	s.logger.WithColumn(name).Debug("column dropped", "capacity", col.Capacity())
	return columnError("drop", name, col.Close())
}

// MemoryUsage returns the bytes held by all column segments.
func (s *Store) MemoryUsage() int64 {
	return s.alloc.MemoryUsage()
}

// MemoryLimit returns the configured memory limit (0 if unlimited).
func (s *Store) MemoryLimit() int64 {
	return s.alloc.MemoryLimit()
}

func (s *Store) blobName(name string) string {
	return name + SnapshotExt
}

func (s *Store) blobStore() (blobstore.BlobStore, error) {
	if s.opts.blobStore == nil {
		return nil, ErrNoBlobStore
	}
	return s.opts.blobStore, nil
}

// Snapshot writes the named column to the blob store.
func (s *Store) Snapshot(ctx context.Context, name string) (snapshot.Header, error) {
	store, err := s.blobStore()
	if err != nil {
		return snapshot.Header{}, err
	}
	col, err := s.Column(name)
	if err != nil {
		return snapshot.Header{}, err
	}

	start := time.Now()
	blob := s.blobName(name)
	h, err := snapshot.Write(ctx, store, blob, col, snapshot.Options{
		Compression: s.opts.compression,
		Controller:  s.rc,
	})

	var written int64
	if err == nil {
		written = snapshot.HeaderSize + int64(h.StoredSize)
	}
	s.metrics.RecordSnapshot(name, written, time.Since(start), err)
	s.logger.WithColumn(name).LogSnapshot(ctx, blob, h.Rows, h.StoredSize, err)
	return h, columnError("snapshot", name, err)
}

// SnapshotAll writes every registered column, running up to the configured
// number of uploads concurrently. It returns the first error.
func (s *Store) SnapshotAll(ctx context.Context) error {
	if _, err := s.blobStore(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range s.Columns() {
		g.Go(func() error {
			if err := s.rc.AcquireBackground(ctx); err != nil {
				return err
			}
			defer s.rc.ReleaseBackground()

			_, err := s.Snapshot(ctx, name)
			return err
		})
	}
	return g.Wait()
}

// TrySnapshot writes the named column if a snapshot worker is free and
// reports false without doing anything otherwise. It suits opportunistic
// checkpoints from a writer that must not wait behind SnapshotAll.
func (s *Store) TrySnapshot(ctx context.Context, name string) (snapshot.Header, bool, error) {
	if _, err := s.blobStore(); err != nil {
		return snapshot.Header{}, false, err
	}
	if !s.rc.TryAcquireBackground() {
		return snapshot.Header{}, false, nil
	}
	defer s.rc.ReleaseBackground()

	h, err := s.Snapshot(ctx, name)
	return h, err == nil, err
}

// Restore replaces the contents of the named column with its snapshot.
//
// The snapshot is read and verified before the column is touched, so a
// missing, corrupt or mismatched snapshot leaves the column unchanged.
// Afterwards the column's capacity equals the snapshot's row count. If the
// new segment cannot be allocated the column is left empty.
func (s *Store) Restore(ctx context.Context, name string) (snapshot.Header, error) {
	store, err := s.blobStore()
	if err != nil {
		return snapshot.Header{}, err
	}
	col, err := s.Column(name)
	if err != nil {
		return snapshot.Header{}, err
	}

	start := time.Now()
	blob := s.blobName(name)
	h, err := s.restore(ctx, store, blob, col)

	s.metrics.RecordRestore(name, int64(h.RawSize), time.Since(start), err)
	s.logger.WithColumn(name).LogRestore(ctx, blob, h.Rows, err)
	return h, columnError("restore", name, err)
}

func (s *Store) restore(ctx context.Context, store blobstore.BlobStore, blob string, col column.Raw) (snapshot.Header, error) {
	h, raw, err := snapshot.Load(ctx, store, blob, s.rc)
	if err != nil {
		return snapshot.Header{}, err
	}
	if err := h.Check(col.ElementLayout()); err != nil {
		return snapshot.Header{}, err
	}

	// Drop the old segment first so the exact-size Load does not need room
	// for both under the memory limit.
	if err := col.Close(); err != nil {
		return snapshot.Header{}, err
	}
	if err := col.Load(raw); err != nil {
		return snapshot.Header{}, err
	}
	return h, nil
}

// Snapshots lists the column names that have a snapshot in the blob store.
func (s *Store) Snapshots(ctx context.Context) ([]string, error) {
	store, err := s.blobStore()
	if err != nil {
		return nil, err
	}
	blobs, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, b := range blobs {
		if name, ok := strings.CutSuffix(b, SnapshotExt); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Close releases every column. Further operations return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for name, col := range s.columns {
		if err := col.Close(); err != nil {
			errs = append(errs, columnError("close", name, err))
		}
	}
	s.columns = nil

	s.logger.Debug("store closed", "memory_usage", s.alloc.MemoryUsage())
	return errors.Join(errs...)
}
