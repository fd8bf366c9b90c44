// Package mem provides byte-level memory helpers for column segments.
//
// # Aligned Allocation
//
// AllocAligned returns heap slices that start on a 64-byte boundary, so the
// first row of every column starts on a cache line.
//
// # Pattern Fill
//
// FillPattern replicates a short byte pattern across a region using doubling
// copies. Columns use it to stamp absent sentinels into freshly grown ranges.
package mem
