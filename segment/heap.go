package segment

import (
	"fmt"

	"github.com/hupe1980/featcol/internal/conv"
	"github.com/hupe1980/featcol/internal/mem"
)

// HeapAllocator allocates 64-byte aligned segments on the Go heap.
type HeapAllocator struct {
	stats atomicStats
}

// NewHeapAllocator creates a HeapAllocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{}
}

// Allocate implements Allocator.
func (a *HeapAllocator) Allocate(width, count int) (seg Segment, err error) {
	size, err := byteSize(width, count)
	if err != nil {
		a.stats.failures.Add(1)
		return nil, err
	}

	defer func() {
		// make panics on lengths the runtime cannot represent.
		if r := recover(); r != nil {
			a.stats.failures.Add(1)
			seg, err = nil, NewAllocationError(width, count, fmt.Errorf("%v", r))
		}
	}()

	data := mem.AllocAligned(size)
	s := &bytesSegment{data: data}
	s.free = func() error {
		a.stats.released(size)
		return nil
	}
	a.stats.allocated(size)
	return s, nil
}

// Stats returns the allocator counters.
func (a *HeapAllocator) Stats() Stats {
	return a.stats.snapshot()
}

func byteSize(width, count int) (int, error) {
	if width <= 0 {
		return 0, NewAllocationError(width, count, fmt.Errorf("invalid element width %d", width))
	}
	if count < 0 {
		return 0, NewAllocationError(width, count, fmt.Errorf("invalid element count %d", count))
	}
	size, err := conv.MulInt(width, count)
	if err != nil {
		return 0, NewAllocationError(width, count, err)
	}
	return size, nil
}
