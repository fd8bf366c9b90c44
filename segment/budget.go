package segment

import (
	"github.com/hupe1980/featcol/internal/resource"
)

// BudgetAllocator enforces a memory limit on top of another allocator.
//
// Bytes are reserved before the inner allocation and returned when the
// segment is released. A refused reservation fails immediately; growth is
// synchronous and never waits for memory to free up.
type BudgetAllocator struct {
	inner Allocator
	rc    *resource.Controller
}

// NewBudgetAllocator limits inner to limitBytes of live segment memory.
// A limit <= 0 only tracks usage.
func NewBudgetAllocator(inner Allocator, limitBytes int64) *BudgetAllocator {
	return NewBudgetAllocatorWithController(inner, resource.NewController(resource.Config{
		MemoryLimitBytes: limitBytes,
	}))
}

// NewBudgetAllocatorWithController charges allocations to an existing controller.
func NewBudgetAllocatorWithController(inner Allocator, rc *resource.Controller) *BudgetAllocator {
	return &BudgetAllocator{inner: inner, rc: rc}
}

// Allocate implements Allocator.
func (a *BudgetAllocator) Allocate(width, count int) (Segment, error) {
	size, err := byteSize(width, count)
	if err != nil {
		return nil, err
	}

	if err := a.rc.AcquireMemory(int64(size)); err != nil {
		return nil, NewAllocationError(width, count, err)
	}

	seg, err := a.inner.Allocate(width, count)
	if err != nil {
		a.rc.ReleaseMemory(int64(size))
		return nil, err
	}

	return &budgetSegment{Segment: seg, rc: a.rc, size: int64(size)}, nil
}

// MemoryUsage returns the bytes currently charged to the budget.
func (a *BudgetAllocator) MemoryUsage() int64 {
	return a.rc.MemoryUsage()
}

// MemoryLimit returns the budget in bytes (0 if unlimited).
func (a *BudgetAllocator) MemoryLimit() int64 {
	return a.rc.MemoryLimit()
}

type budgetSegment struct {
	Segment
	rc       *resource.Controller
	size     int64
	released bool
}

func (s *budgetSegment) Release() error {
	err := s.Segment.Release()
	if !s.released {
		s.released = true
		s.rc.ReleaseMemory(s.size)
	}
	return err
}
