package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// blob reads ranges of one object version.
type blob struct {
	client *minio.Client
	bucket string
	key    string
	etag   string
	size   int64
}

func (b *blob) Size() int64 { return b.size }

func (b *blob) Close() error { return nil }

// span validates [off, off+n) and returns its inclusive end clamped to the
// object. Ranges starting at or past the end return io.EOF.
func (b *blob) span(off, n int64) (int64, error) {
	if off < 0 || n < 0 {
		return 0, fmt.Errorf("minio: %s: invalid range [%d, +%d)", b.key, off, n)
	}
	if off >= b.size {
		return 0, io.EOF
	}
	return min(off+n, b.size) - 1, nil
}

func (b *blob) get(ctx context.Context, off, end int64) (*minio.Object, error) {
	var opts minio.GetObjectOptions
	if err := opts.SetRange(off, end); err != nil {
		return nil, err
	}
	if b.etag != "" {
		if err := opts.SetMatchETag(b.etag); err != nil {
			return nil, err
		}
	}
	obj, err := b.client.GetObject(ctx, b.bucket, b.key, opts)
	if err != nil {
		return nil, wrapError(b.key, err)
	}
	return obj, nil
}

func (b *blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	end, err := b.span(off, int64(len(p)))
	if err != nil {
		return 0, err
	}
	obj, err := b.get(ctx, off, end)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	n, err := io.ReadFull(obj, p[:end-off+1])
	if err != nil {
		return n, wrapError(b.key, err)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *blob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	end, err := b.span(off, length)
	if err == io.EOF && off == 0 && length == 0 {
		err = nil // empty range of an empty object
	}
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	obj, err := b.get(ctx, off, end)
	if err != nil {
		return nil, err
	}
	return &rangeReader{obj: obj, key: b.key}, nil
}

// rangeReader maps errors surfacing on the first Read of a lazily opened
// object to the store's sentinels.
type rangeReader struct {
	obj *minio.Object
	key string
}

func (r *rangeReader) Read(p []byte) (int, error) {
	n, err := r.obj.Read(p)
	if err != nil && err != io.EOF {
		err = wrapError(r.key, err)
	}
	return n, err
}

func (r *rangeReader) Close() error { return r.obj.Close() }
