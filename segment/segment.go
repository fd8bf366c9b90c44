package segment

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrAllocationFailed is matched by every *AllocationError.
	ErrAllocationFailed = errors.New("segment: allocation failed")
	// ErrTooSmall is returned when CopyFrom's source does not fit.
	ErrTooSmall = errors.New("segment: destination too small")
	// ErrReleased is returned when using a released segment.
	ErrReleased = errors.New("segment: released")
)

// Segment is a contiguous, fixed-size byte region.
type Segment interface {
	// Bytes returns the region. The slice is valid until Release.
	Bytes() []byte
	// Len returns the size of the region in bytes.
	Len() int
	// CopyFrom copies all of src into the prefix of this segment.
	CopyFrom(src Segment) error
	// Release returns the memory to its allocator. It is idempotent.
	Release() error
}

// Allocator creates segments.
type Allocator interface {
	// Allocate returns a segment of at least width*count bytes.
	Allocate(width, count int) (Segment, error)
}

// AllocationError describes a failed Allocate call.
type AllocationError struct {
	Width int
	Count int
	cause error
}

func (e *AllocationError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("segment: cannot allocate %d elements of %d bytes", e.Count, e.Width)
	}
	return fmt.Sprintf("segment: cannot allocate %d elements of %d bytes: %v", e.Count, e.Width, e.cause)
}

// Unwrap exposes both ErrAllocationFailed and the underlying cause.
func (e *AllocationError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrAllocationFailed}
	}
	return []error{ErrAllocationFailed, e.cause}
}

// NewAllocationError wraps cause as an allocation failure for width*count bytes.
// Custom allocators should return it so callers can match ErrAllocationFailed.
func NewAllocationError(width, count int, cause error) *AllocationError {
	return &AllocationError{Width: width, Count: count, cause: cause}
}

// Stats is a snapshot of allocator counters.
type Stats struct {
	Allocations uint64 // Historical: successful allocations
	Failures    uint64 // Historical: failed allocations
	Releases    uint64 // Historical: released segments
	LiveBytes   int64  // Current: bytes held by unreleased segments
	TotalBytes  int64  // Historical: bytes ever allocated
}

type atomicStats struct {
	allocations atomic.Uint64
	failures    atomic.Uint64
	releases    atomic.Uint64
	liveBytes   atomic.Int64
	totalBytes  atomic.Int64
}

func (s *atomicStats) allocated(n int) {
	s.allocations.Add(1)
	s.liveBytes.Add(int64(n))
	s.totalBytes.Add(int64(n))
}

func (s *atomicStats) released(n int) {
	s.releases.Add(1)
	s.liveBytes.Add(-int64(n))
}

func (s *atomicStats) snapshot() Stats {
	return Stats{
		Allocations: s.allocations.Load(),
		Failures:    s.failures.Load(),
		Releases:    s.releases.Load(),
		LiveBytes:   s.liveBytes.Load(),
		TotalBytes:  s.totalBytes.Load(),
	}
}

// bytesSegment is the shared Segment implementation over a byte slice.
type bytesSegment struct {
	data     []byte
	released atomic.Bool
	free     func() error
}

func (s *bytesSegment) Bytes() []byte {
	if s.released.Load() {
		return nil
	}
	return s.data
}

func (s *bytesSegment) Len() int {
	return len(s.data)
}

func (s *bytesSegment) CopyFrom(src Segment) error {
	if s.released.Load() {
		return ErrReleased
	}
	if src.Len() > len(s.data) {
		return fmt.Errorf("%w: %d bytes into %d", ErrTooSmall, src.Len(), len(s.data))
	}
	copy(s.data, src.Bytes())
	return nil
}

func (s *bytesSegment) Release() error {
	if s.released.Swap(true) {
		return nil
	}
	if s.free != nil {
		return s.free()
	}
	return nil
}
