package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/featcol/column"
	"github.com/hupe1980/featcol/internal/hash"
	"github.com/hupe1980/featcol/layout"
)

const (
	// HeaderSize is the encoded size of a Header.
	HeaderSize = 48
	// Version is the current format version.
	Version = 1

	// MaxRawSize bounds the element bytes of one snapshot (1 TiB).
	MaxRawSize = 1 << 40

	magic = "FCOL"

	// lz4MaxExpansion is the largest ratio of decoded to encoded LZ4
	// block bytes.
	lz4MaxExpansion = 255
)

// ByteOrder tags the order of the element bytes in the payload.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = 1
	BigEndian    ByteOrder = 2
)

// NativeByteOrder is the byte order of this machine.
var NativeByteOrder = func() ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	default:
		return fmt.Sprintf("ByteOrder(%d)", uint8(o))
	}
}

var (
	// ErrCorrupt is returned for malformed or damaged snapshots.
	ErrCorrupt = errors.New("snapshot: corrupt")
	// ErrByteOrder is returned when restoring a snapshot written with a
	// different native byte order.
	ErrByteOrder = errors.New("snapshot: byte order mismatch")
)

// Header describes a stored column image.
type Header struct {
	Version      uint16
	ByteOrder    ByteOrder
	Compression  Compression
	ElementWidth uint32
	Fingerprint  uint32
	Rows         uint64
	RawSize      uint64
	StoredSize   uint64
	Checksum     uint32
}

// MarshalBinary encodes the header in its fixed 48-byte form.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	h.put(b)
	return b, nil
}

func (h Header) put(b []byte) {
	le := binary.LittleEndian
	copy(b[0:4], magic)
	le.PutUint16(b[4:], h.Version)
	b[6] = byte(h.ByteOrder)
	b[7] = byte(h.Compression)
	le.PutUint32(b[8:], h.ElementWidth)
	le.PutUint32(b[12:], h.Fingerprint)
	le.PutUint64(b[16:], h.Rows)
	le.PutUint64(b[24:], h.RawSize)
	le.PutUint64(b[32:], h.StoredSize)
	le.PutUint32(b[40:], h.Checksum)
	le.PutUint32(b[44:], hash.CRC32C(b[:44]))
}

// UnmarshalBinary decodes and validates a header.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: %d bytes, header needs %d", ErrCorrupt, len(b), HeaderSize)
	}
	if string(b[0:4]) != magic {
		return fmt.Errorf("%w: bad magic %q", ErrCorrupt, b[0:4])
	}
	le := binary.LittleEndian
	if got, want := hash.CRC32C(b[:44]), le.Uint32(b[44:]); got != want {
		return fmt.Errorf("%w: header checksum %08x, want %08x", ErrCorrupt, got, want)
	}

	*h = Header{
		Version:      le.Uint16(b[4:]),
		ByteOrder:    ByteOrder(b[6]),
		Compression:  Compression(b[7]),
		ElementWidth: le.Uint32(b[8:]),
		Fingerprint:  le.Uint32(b[12:]),
		Rows:         le.Uint64(b[16:]),
		RawSize:      le.Uint64(b[24:]),
		StoredSize:   le.Uint64(b[32:]),
		Checksum:     le.Uint32(b[40:]),
	}

	if h.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}
	if h.ElementWidth == 0 {
		return fmt.Errorf("%w: zero element width", ErrCorrupt)
	}
	if h.RawSize/uint64(h.ElementWidth) != h.Rows || h.RawSize%uint64(h.ElementWidth) != 0 {
		return fmt.Errorf("%w: %d raw bytes for %d rows of %d bytes", ErrCorrupt, h.RawSize, h.Rows, h.ElementWidth)
	}
	if h.RawSize > MaxRawSize {
		return fmt.Errorf("%w: raw size %d exceeds %d", ErrCorrupt, h.RawSize, uint64(MaxRawSize))
	}
	switch h.Compression {
	case CompressionNone:
		if h.StoredSize != h.RawSize {
			return fmt.Errorf("%w: uncompressed payload of %d bytes, want %d", ErrCorrupt, h.StoredSize, h.RawSize)
		}
	case CompressionLZ4:
		if h.RawSize/lz4MaxExpansion > h.StoredSize {
			return fmt.Errorf("%w: %d lz4 bytes cannot expand to %d", ErrCorrupt, h.StoredSize, h.RawSize)
		}
	case CompressionZSTD:
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrCorrupt, uint8(h.Compression))
	}
	return nil
}

// Check reports whether the snapshot can be loaded into a column with
// layout desc on this machine.
func (h Header) Check(desc *layout.Descriptor) error {
	if h.ByteOrder != NativeByteOrder {
		return fmt.Errorf("%w: snapshot is %s, machine is %s", ErrByteOrder, h.ByteOrder, NativeByteOrder)
	}
	if int(h.ElementWidth) != desc.Width() || h.Fingerprint != desc.Fingerprint() {
		return fmt.Errorf("%w: snapshot has width %d fingerprint %08x, column %q has width %d fingerprint %08x",
			column.ErrLayoutMismatch, h.ElementWidth, h.Fingerprint, desc.Name(), desc.Width(), desc.Fingerprint())
	}
	return nil
}
