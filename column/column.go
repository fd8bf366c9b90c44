package column

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/featcol/internal/mem"
	"github.com/hupe1980/featcol/layout"
	"github.com/hupe1980/featcol/segment"
)

// Column is a growable array of fixed-width elements backed by one segment.
//
// Invariant: capacity == backing.Len()/width when a backing segment exists,
// and 0 otherwise.
type Column[T any] struct {
	name         string
	codec        Codec[T]
	layout       *layout.Descriptor
	width        int
	growthFactor int
	alloc        segment.Allocator
	logger       *slog.Logger
	observer     GrowObserver

	backing  segment.Segment
	data     []byte
	capacity int

	// absentRow is one element holding only the sentinel.
	absentRow []byte
}

// New creates a column and grows it to hold initialCapacity rows using the
// growth factor, so New(alloc, codec, 2) yields capacity 20 by default.
// A non-positive initialCapacity allocates nothing until the first grow.
func New[T any](alloc segment.Allocator, codec Codec[T], initialCapacity int, opts ...Option) (*Column[T], error) {
	if alloc == nil {
		return nil, errors.New("column: nil allocator")
	}
	if codec == nil {
		return nil, errors.New("column: nil codec")
	}

	desc := codec.Layout()

	o := options{
		name:         desc.Name(),
		growthFactor: DefaultGrowthFactor,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	c := &Column[T]{
		name:         o.name,
		codec:        codec,
		layout:       desc,
		width:        desc.Width(),
		growthFactor: o.growthFactor,
		alloc:        alloc,
		logger:       o.logger.With("column", o.name),
		observer:     o.observer,
		absentRow:    make([]byte, desc.Width()),
	}
	codec.MarkAbsent(c.absentRow)

	if _, err := c.EnsureCapacity(initialCapacity); err != nil {
		return nil, err
	}
	return c, nil
}

// Name returns the column name.
func (c *Column[T]) Name() string { return c.name }

// Capacity returns the number of rows representable by the backing segment.
func (c *Column[T]) Capacity() int { return c.capacity }

// ElementWidth returns the fixed number of bytes per row.
func (c *Column[T]) ElementWidth() int { return c.width }

// ElementLayout returns the element descriptor, for bulk readers of Bytes.
func (c *Column[T]) ElementLayout() *layout.Descriptor { return c.layout }

// GrowthFactor returns the over-allocation multiplier used by EnsureCapacity.
func (c *Column[T]) GrowthFactor() int { return c.growthFactor }

// Bytes returns the raw element bytes of all Capacity() rows.
// The slice aliases the backing segment and is invalidated by the next grow.
func (c *Column[T]) Bytes() []byte {
	return c.data[:c.capacity*c.width]
}

// EnsureCapacity guarantees Capacity() >= rows.
//
// It returns false without side effects if the capacity already suffices
// (including any rows <= 0). Otherwise it resizes to rows times the growth
// factor, or to exactly rows if that product would overflow.
func (c *Column[T]) EnsureCapacity(rows int) (bool, error) {
	if rows <= c.capacity {
		return false, nil
	}
	return c.ResizeTo(c.growTarget(rows))
}

func (c *Column[T]) growTarget(rows int) int {
	maxRows := math.MaxInt / c.width
	if rows > maxRows/c.growthFactor {
		return rows
	}
	return rows * c.growthFactor
}

// ResizeTo replaces the backing segment with one of at least rows elements.
//
// It returns false without side effects if rows <= Capacity(); columns never
// shrink. On allocation failure the error is returned and the column is
// unchanged. New rows read back absent.
func (c *Column[T]) ResizeTo(rows int) (bool, error) {
	if rows <= c.capacity {
		return false, nil
	}

	start := time.Now()
	from := c.capacity

	seg, err := c.alloc.Allocate(c.width, rows)
	if err != nil {
		c.grown(GrowEvent{FromRows: from, ToRows: rows, Duration: time.Since(start), Err: err})
		return false, err
	}

	newCap := seg.Len() / c.width
	if newCap < rows {
		_ = seg.Release()
		err := segment.NewAllocationError(c.width, rows,
			fmt.Errorf("allocator returned %d bytes, need %d", seg.Len(), rows*c.width))
		c.grown(GrowEvent{FromRows: from, ToRows: rows, Duration: time.Since(start), Err: err})
		return false, err
	}

	data := seg.Bytes()
	oldBytes := from * c.width

	// Stamp absence over the new rows first, so they read back absent
	// whether or not there is anything to copy.
	c.fillAbsent(data[oldBytes : newCap*c.width])

	old := c.backing
	if old != nil {
		if err := seg.CopyFrom(old); err != nil {
			_ = seg.Release()
			c.grown(GrowEvent{FromRows: from, ToRows: rows, Duration: time.Since(start), Err: err})
			return false, err
		}
		// Bytes of the old segment beyond its last whole row spill into the
		// first new row.
		if old.Len() > oldBytes {
			c.fillAbsent(data[oldBytes : oldBytes+c.width])
		}
	}

	c.backing = seg
	c.data = data
	c.capacity = newCap

	if old != nil {
		if err := old.Release(); err != nil {
			c.logger.Warn("failed to release replaced segment", "error", err)
		}
	}

	c.grown(GrowEvent{FromRows: from, ToRows: newCap, Bytes: seg.Len(), Duration: time.Since(start)})
	return true, nil
}

func (c *Column[T]) fillAbsent(dst []byte) {
	if len(dst) == 0 {
		return
	}
	if c.layout.Presence().Width() == c.width {
		mem.FillPattern(dst, c.absentRow)
		return
	}
	for off := 0; off+c.width <= len(dst); off += c.width {
		c.codec.MarkAbsent(dst[off : off+c.width])
	}
}

func (c *Column[T]) grown(e GrowEvent) {
	e.Column = c.name
	if e.Err != nil {
		c.logger.LogAttrs(context.Background(), slog.LevelError, "column grow failed",
			slog.Int("from_rows", e.FromRows),
			slog.Int("requested_rows", e.ToRows),
			slog.Int("element_width", c.width),
			slog.Any("error", e.Err),
		)
	} else {
		c.logger.LogAttrs(context.Background(), slog.LevelDebug, "column grown",
			slog.Int("from_rows", e.FromRows),
			slog.Int("to_rows", e.ToRows),
			slog.Int("bytes", e.Bytes),
			slog.Duration("duration", e.Duration),
		)
	}
	if c.observer != nil {
		c.observer.ObserveGrow(e)
	}
}

func (c *Column[T]) row(index int) []byte {
	if index < 0 || index >= c.capacity {
		panic(&OutOfBoundsError{Column: c.name, Index: index, Capacity: c.capacity})
	}
	off := index * c.width
	return c.data[off : off+c.width : off+c.width]
}

// Get returns the value at index and true, or the zero value and false if
// the row is absent. Only the presence field is read for absent rows.
func (c *Column[T]) Get(index int) (T, bool) {
	row := c.row(index)
	if c.codec.IsAbsent(row) {
		var zero T
		return zero, false
	}
	return c.codec.Decode(row), true
}

// Set writes v at index. A value whose presence field is the sentinel leaves
// the row absent.
func (c *Column[T]) Set(index int, v T) {
	c.codec.Encode(c.row(index), v)
}

// SetAbsent marks the row at index absent. Only the presence field is
// written; the remaining bytes keep stale data.
func (c *Column[T]) SetAbsent(index int) {
	c.codec.MarkAbsent(c.row(index))
}

// IsAbsent reports whether the row at index is absent.
func (c *Column[T]) IsAbsent(index int) bool {
	return c.codec.IsAbsent(c.row(index))
}

// PresentCount returns the number of present rows.
func (c *Column[T]) PresentCount() int {
	n := 0
	for off := 0; off < c.capacity*c.width; off += c.width {
		if !c.codec.IsAbsent(c.data[off : off+c.width]) {
			n++
		}
	}
	return n
}

// Present scans the column and returns the indexes of all present rows.
// The bitmap is a point-in-time result; the column keeps no bitmap itself.
func (c *Column[T]) Present() (*roaring.Bitmap, error) {
	if uint64(c.capacity) > math.MaxUint32+1 {
		return nil, fmt.Errorf("column %q: %d rows exceed the 32-bit presence bitmap", c.name, c.capacity)
	}

	bm := roaring.New()
	runStart := -1
	for i := 0; i < c.capacity; i++ {
		off := i * c.width
		present := !c.codec.IsAbsent(c.data[off : off+c.width])
		switch {
		case present && runStart < 0:
			runStart = i
		case !present && runStart >= 0:
			bm.AddRange(uint64(runStart), uint64(i))
			runStart = -1
		}
	}
	if runStart >= 0 {
		bm.AddRange(uint64(runStart), uint64(c.capacity))
	}
	return bm, nil
}

// Load copies a raw image of whole rows into rows [0, len(image)/width),
// growing the column to exactly that many rows if needed. Rows past the
// image are left untouched.
func (c *Column[T]) Load(image []byte) error {
	if len(image)%c.width != 0 {
		return fmt.Errorf("%w: %d bytes, width %d", ErrImageSize, len(image), c.width)
	}
	if _, err := c.ResizeTo(len(image) / c.width); err != nil {
		return err
	}
	copy(c.data, image)
	return nil
}

// Close releases the backing segment. The column is empty afterwards and
// grows again on the next EnsureCapacity.
func (c *Column[T]) Close() error {
	if c.backing == nil {
		return nil
	}
	err := c.backing.Release()
	c.backing = nil
	c.data = nil
	c.capacity = 0
	return err
}
