package segment

import (
	"errors"
	"sync"
)

// ErrInjectedFault is the default error returned by FaultyAllocator.
var ErrInjectedFault = errors.New("segment: injected fault")

// FaultyAllocator wraps an allocator and fails on demand.
// It exists to exercise allocation failure paths in tests.
type FaultyAllocator struct {
	inner Allocator

	mu        sync.Mutex
	failAfter int // remaining successful allocations; -1 disables
	err       error
	calls     int
}

// NewFaultyAllocator wraps inner (or a HeapAllocator if nil) with faults disabled.
func NewFaultyAllocator(inner Allocator) *FaultyAllocator {
	if inner == nil {
		inner = NewHeapAllocator()
	}
	return &FaultyAllocator{inner: inner, failAfter: -1, err: ErrInjectedFault}
}

// FailAfter lets n more allocations succeed, then fails every following one.
// A negative n disables fault injection.
func (a *FaultyAllocator) FailAfter(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failAfter = n
}

// SetError changes the error carried by injected failures.
func (a *FaultyAllocator) SetError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

// Calls returns the number of Allocate calls observed.
func (a *FaultyAllocator) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// Allocate implements Allocator.
func (a *FaultyAllocator) Allocate(width, count int) (Segment, error) {
	a.mu.Lock()
	a.calls++
	if a.failAfter == 0 {
		err := a.err
		a.mu.Unlock()
		return nil, NewAllocationError(width, count, err)
	}
	if a.failAfter > 0 {
		a.failAfter--
	}
	a.mu.Unlock()

	return a.inner.Allocate(width, count)
}
