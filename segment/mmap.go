package segment

import (
	"fmt"

	"github.com/hupe1980/featcol/internal/mmap"
)

// MmapAllocator allocates segments from anonymous memory mappings.
//
// The memory lives outside the Go heap and is returned to the operating
// system when the segment is released. A segment that is never released
// leaks its mapping.
type MmapAllocator struct {
	stats atomicStats
}

// NewMmapAllocator creates an MmapAllocator.
func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{}
}

// Allocate implements Allocator.
func (a *MmapAllocator) Allocate(width, count int) (Segment, error) {
	size, err := byteSize(width, count)
	if err != nil {
		a.stats.failures.Add(1)
		return nil, err
	}

	m, err := mmap.MapAnon(size)
	if err != nil {
		a.stats.failures.Add(1)
		return nil, NewAllocationError(width, count, fmt.Errorf("map anonymous memory: %w", err))
	}

	s := &bytesSegment{data: m.Bytes()}
	s.free = func() error {
		a.stats.released(size)
		return m.Close()
	}
	a.stats.allocated(size)
	return s, nil
}

// Stats returns the allocator counters.
func (a *MmapAllocator) Stats() Stats {
	return a.stats.snapshot()
}
