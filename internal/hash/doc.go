// Package hash provides the CRC32-Castagnoli checksum used across featcol.
//
// Snapshot payloads carry a CRC32C of their uncompressed bytes, and layout
// descriptors derive their fingerprint from a CRC32C over the field table.
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when available.
//
// For one-shot checksums:
//
//	sum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	sum := h.Sum32()
package hash
