// Package conv provides checked integer conversions and arithmetic.
//
// Use cases:
//   - Validating untrusted numbers read from snapshot headers
//   - Computing byte sizes (rows * element width) without silent overflow
//
// Conversions that are provably safe by construction (loop indices, bounded
// counters) should use plain casts instead.
package conv
