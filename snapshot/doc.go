// Package snapshot persists column images to a blobstore.
//
// A snapshot is a fixed 48-byte header followed by the column's raw element
// bytes, optionally compressed:
//
//	offset  size  field
//	0       4     magic "FCOL"
//	4       2     format version
//	6       1     byte order of the element bytes (1 little, 2 big)
//	7       1     compression (0 none, 1 LZ4, 2 ZSTD)
//	8       4     element width in bytes
//	12      4     layout fingerprint
//	16      8     rows
//	24      8     raw payload size
//	32      8     stored payload size
//	40      4     CRC32C of the raw payload
//	44      4     CRC32C of header bytes [0, 44)
//
// Header integers are little-endian. Element bytes are written in the
// producing machine's native order and are only restored on a machine with
// the same order.
package snapshot
