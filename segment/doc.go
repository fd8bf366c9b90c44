// Package segment provides the contiguous byte regions that back columns.
//
// An Allocator hands out Segments of at least width*count bytes. A Segment is
// owned by exactly one column until that column replaces it during growth and
// releases the old one.
//
// # Built-in Allocators
//
//   - HeapAllocator: 64-byte aligned Go heap memory. Used in tests and for
//     small tables.
//   - MmapAllocator: anonymous memory mappings outside the Go heap, so large
//     columns add nothing to garbage collector work.
//   - BudgetAllocator: wraps another allocator and enforces a memory limit.
//   - FaultyAllocator: wraps another allocator and fails on demand.
//
// # Errors
//
// Every failed allocation returns an *AllocationError that matches
// ErrAllocationFailed with errors.Is. The cause (a refused budget, an mmap
// error, an overflowing size) is also reachable through errors.Is/As.
//
// # Thread Safety
//
// Allocators are safe for concurrent use. Segments are not synchronized;
// their owner serializes access.
package segment
