package column

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/featcol/layout"
)

// Raw is the type-erased view of a Column, for code that handles columns of
// different element types uniformly (registries, snapshots, bulk readers).
type Raw interface {
	Name() string
	Capacity() int
	ElementLayout() *layout.Descriptor
	Bytes() []byte
	IsAbsent(index int) bool
	PresentCount() int
	Present() (*roaring.Bitmap, error)
	EnsureCapacity(rows int) (bool, error)
	Load(image []byte) error
	Close() error
}

var (
	_ Raw = (*Column[float32])(nil)
	_ Raw = (*Column[int64])(nil)
)
