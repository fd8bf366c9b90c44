package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hupe1980/featcol/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ blobstore.BlobStore = (*Store)(nil)

// DefaultContentType is stored with every uploaded object.
const DefaultContentType = "application/octet-stream"

var (
	// ErrChanged is returned when an object is replaced while a Blob
	// opened on its previous version is still being read.
	ErrChanged = errors.New("minio: object changed since open")

	errUploadAborted = errors.New("minio: upload aborted")
)

// Store implements blobstore.BlobStore on a MinIO or S3-compatible bucket.
type Store struct {
	client      *minio.Client
	bucket      string
	prefix      string
	partSize    uint64
	contentType string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix places all blobs below prefix. Leading and trailing slashes
// are ignored, so "columns", "/columns/" and "columns/" are equivalent.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.Trim(prefix, "/")
	}
}

// WithPartSize sets the multipart chunk size for streamed uploads.
// Zero keeps the client default.
func WithPartSize(n uint64) Option {
	return func(s *Store) {
		s.partSize = n
	}
}

// WithContentType overrides DefaultContentType.
func WithContentType(ct string) Option {
	return func(s *Store) {
		if ct != "" {
			s.contentType = ct
		}
	}
}

// NewStore creates a Store on an existing client.
func NewStore(client *minio.Client, bucket string, opts ...Option) *Store {
	s := &Store{
		client:      client,
		bucket:      bucket,
		contentType: DefaultContentType,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New connects to endpoint with static credentials.
func New(endpoint, bucket, accessKey, secretKey string, secure bool, opts ...Option) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: connect %s: %w", endpoint, err)
	}
	return NewStore(client, bucket, opts...), nil
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *Store) putOptions() minio.PutObjectOptions {
	return minio.PutObjectOptions{
		ContentType:  s.contentType,
		PartSize:     s.partSize,
		AutoChecksum: minio.ChecksumCRC32C,
	}
}

// Open stats the object and returns a Blob pinned to its current version.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, wrapError(key, err)
	}
	return &blob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		etag:   info.ETag,
		size:   info.Size,
	}, nil
}

// Put uploads data in a single request.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	key := s.key(name)
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), s.putOptions()); err != nil {
		return wrapError(key, err)
	}
	return nil
}

// Create starts a streamed upload. The object becomes visible when the
// returned blob is closed, and never if it is aborted.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	key := s.key(name)
	pr, pw := io.Pipe()
	u := &upload{pw: pw, errc: make(chan error, 1)}

	opts := s.putOptions()
	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, key, pr, -1, opts)
		_ = pr.CloseWithError(err)
		u.errc <- err
	}()
	return u, nil
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	key := s.key(name)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil && !isNotFound(err) {
		return wrapError(key, err)
	}
	return nil
}

// List returns the sorted names of all blobs that start with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	root := s.key("")

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, wrapError(root, obj.Err)
		}
		if name, ok := strings.CutPrefix(obj.Key, root); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	return resp.Code == minio.NoSuchKey || resp.Code == "NotFound"
}

func wrapError(key string, err error) error {
	var resp minio.ErrorResponse
	switch {
	case isNotFound(err):
		return fmt.Errorf("minio: %s: %w", key, blobstore.ErrNotFound)
	case errors.As(err, &resp) && resp.Code == minio.PreconditionFailed:
		return fmt.Errorf("minio: %s: %w", key, ErrChanged)
	default:
		return err
	}
}

// upload implements blobstore.WritableBlob over a pipe into PutObject.
type upload struct {
	pw       *io.PipeWriter
	errc     chan error
	finished atomic.Bool
}

func (u *upload) Write(p []byte) (int, error) {
	return u.pw.Write(p)
}

// Sync is a no-op; data is durable once Close returns.
func (u *upload) Sync() error { return nil }

func (u *upload) Close() error {
	if !u.finished.CompareAndSwap(false, true) {
		return nil
	}
	if err := u.pw.Close(); err != nil {
		return err
	}
	return <-u.errc
}

func (u *upload) Abort() error {
	if !u.finished.CompareAndSwap(false, true) {
		return nil
	}
	_ = u.pw.CloseWithError(errUploadAborted)
	<-u.errc
	return nil
}
