// Package mmap wraps platform memory mappings.
//
// Two kinds of mappings are supported:
//
//   - MapAnon creates a read-write anonymous mapping. Segment allocators use it to
//     obtain column backing memory outside the Go heap, so multi-gigabyte columns do
//     not add to garbage collector scan work.
//   - Open maps an existing file read-only. The local blob store uses it to read
//     column snapshots without copying them through kernel buffers.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: VirtualAlloc for anonymous memory, MapViewOfFile for files
//
// # Thread Safety
//
// Close is idempotent. Callers must not touch the slice returned by Bytes after
// Close returns.
package mmap
