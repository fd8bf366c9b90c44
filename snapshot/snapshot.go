package snapshot

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/featcol/blobstore"
	"github.com/hupe1980/featcol/column"
	"github.com/hupe1980/featcol/internal/hash"
	"github.com/hupe1980/featcol/internal/resource"
)

// Options configures Write and Read.
type Options struct {
	// Compression is the requested payload codec. Payloads that do not
	// compress well are stored uncompressed regardless.
	Compression Compression
	// Controller throttles snapshot IO. Nil means unlimited.
	Controller *resource.Controller
}

// Encode builds a snapshot image of col.
func Encode(col column.Raw, c Compression) ([]byte, Header, error) {
	desc := col.ElementLayout()
	raw := col.Bytes()

	stored, used, err := compress(raw, c)
	if err != nil {
		return nil, Header{}, err
	}

	h := Header{
		Version:      Version,
		ByteOrder:    NativeByteOrder,
		Compression:  used,
		ElementWidth: uint32(desc.Width()),
		Fingerprint:  desc.Fingerprint(),
		Rows:         uint64(col.Capacity()),
		RawSize:      uint64(len(raw)),
		StoredSize:   uint64(len(stored)),
		Checksum:     hash.CRC32C(raw),
	}

	out := make([]byte, HeaderSize+len(stored))
	h.put(out)
	copy(out[HeaderSize:], stored)
	return out, h, nil
}

// Decode validates a snapshot image and returns its header and raw
// element bytes.
func Decode(data []byte) (Header, []byte, error) {
	var h Header
	if err := h.UnmarshalBinary(data); err != nil {
		return Header{}, nil, err
	}

	payload := data[HeaderSize:]
	if uint64(len(payload)) != h.StoredSize {
		return Header{}, nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(payload), h.StoredSize)
	}
	if h.RawSize > math.MaxInt {
		return Header{}, nil, fmt.Errorf("%w: raw size %d", ErrCorrupt, h.RawSize)
	}

	raw, err := decompress(payload, h.Compression, int(h.RawSize))
	if err != nil {
		return Header{}, nil, err
	}
	if uint64(len(raw)) != h.RawSize {
		return Header{}, nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrCorrupt, len(raw), h.RawSize)
	}
	if sum := hash.CRC32C(raw); sum != h.Checksum {
		return Header{}, nil, fmt.Errorf("%w: payload checksum %08x, want %08x", ErrCorrupt, sum, h.Checksum)
	}
	return h, raw, nil
}

// Write stores a snapshot of col under name. A failed write leaves no blob
// behind.
func Write(ctx context.Context, store blobstore.BlobStore, name string, col column.Raw, opts Options) (Header, error) {
	data, h, err := Encode(col, opts.Compression)
	if err != nil {
		return Header{}, err
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return Header{}, fmt.Errorf("snapshot: create %q: %w", name, err)
	}

	if _, err := resource.NewRateLimitedWriter(ctx, w, opts.Controller).Write(data); err != nil {
		_ = w.Abort()
		return Header{}, fmt.Errorf("snapshot: write %q: %w", name, err)
	}
	if err := w.Sync(); err != nil {
		_ = w.Abort()
		return Header{}, fmt.Errorf("snapshot: sync %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return Header{}, fmt.Errorf("snapshot: commit %q: %w", name, err)
	}
	return h, nil
}

// Read loads the snapshot stored under name into col, growing it to the
// snapshot's row count. Rows of col past the snapshot keep their contents;
// restore into an empty column for an exact copy.
func Read(ctx context.Context, store blobstore.BlobStore, name string, col column.Raw, opts Options) (Header, error) {
	h, raw, err := Load(ctx, store, name, opts.Controller)
	if err != nil {
		return Header{}, err
	}
	if err := h.Check(col.ElementLayout()); err != nil {
		return Header{}, fmt.Errorf("snapshot %q: %w", name, err)
	}
	if err := col.Load(raw); err != nil {
		return Header{}, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return h, nil
}

// Load reads and verifies the snapshot stored under name and returns its
// header and raw element bytes. IO is throttled by rc.
func Load(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) (Header, []byte, error) {
	data, err := readBlob(ctx, store, name, rc)
	if err != nil {
		return Header{}, nil, err
	}

	h, raw, err := Decode(data)
	if err != nil {
		return Header{}, nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return h, raw, nil
}

// ReadHeader reads only the header of the snapshot stored under name.
func ReadHeader(ctx context.Context, store blobstore.BlobStore, name string) (Header, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return Header{}, err
	}
	defer blob.Close()

	buf := make([]byte, HeaderSize)
	n, err := blob.ReadAt(ctx, buf, 0)
	if err != nil && err != io.EOF {
		return Header{}, fmt.Errorf("snapshot: read header %q: %w", name, err)
	}

	var h Header
	if err := h.UnmarshalBinary(buf[:n]); err != nil {
		return Header{}, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return h, nil
}

func readBlob(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	size := blob.Size()
	if size > math.MaxInt {
		return nil, fmt.Errorf("%w: blob %q is %d bytes", ErrCorrupt, name, size)
	}
	if err := rc.AcquireIO(ctx, int(size)); err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	n, err := blob.ReadAt(ctx, buf, 0)
	if err != nil && !(err == io.EOF && n == len(buf)) {
		return nil, fmt.Errorf("snapshot: read %q: %w", name, err)
	}
	if n != len(buf) {
		return nil, fmt.Errorf("snapshot: read %q: %w", name, io.ErrUnexpectedEOF)
	}
	return buf, nil
}
