package rawbuf

import (
	"fmt"
	"iter"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/rawbuf/internal/conv"
	"github.com/hupe1980/rawbuf/internal/mmap"
	"github.com/hupe1980/rawbuf/internal/simd"
)

// Buffer is an owned, contiguous, manually-managed memory region holding a
// fixed number of elements of type T.
//
// An allocated buffer owns one anonymous mapping and must be released exactly
// once; a wrapped or reinterpreted buffer borrows memory it does not own and
// its Release frees nothing. The released flag converts use-after-release and
// double-release into checked errors rather than memory corruption.
//
// T must not contain Go pointers: the backing region is invisible to the
// garbage collector.
type Buffer[T any] struct {
	data     []T
	mapping  *mmap.Mapping // nil for wrapped and reinterpreted buffers
	released atomic.Bool
}

// Alloc allocates a buffer of length elements backed by a fresh anonymous
// mapping. The contents are unspecified unless WithZeroFill is given, in
// which case the region is guaranteed all-bits-zero.
//
// Allocation failure is surfaced immediately and never retried.
func Alloc[T any](length int, opts ...AllocOption) (*Buffer[T], error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	var o allocOptions
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))

	byteLen, err := conv.MulInt(length, elemSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSizeOverflow, err)
	}

	b := &Buffer[T]{}

	if elemSize == 0 {
		// Zero-size elements occupy no memory; a plain slice carries the length.
		b.data = make([]T, length)
		return b, nil
	}

	m, err := mmap.MapAnon(byteLen)
	if err != nil {
		return nil, fmt.Errorf("rawbuf: allocating %d bytes: %w", byteLen, err)
	}
	b.mapping = m

	if byteLen > 0 {
		b.data = unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(m.Bytes()))), length)
	}

	if o.zeroFill {
		// Fresh anonymous pages are already zero on every supported platform;
		// the explicit clear keeps the guarantee independent of the backing.
		simd.Memset(b.data, zero)
	}

	return b, nil
}

// Wrap constructs a non-owning buffer over length elements of caller-supplied
// memory starting at ptr. The caller keeps ownership: Release on a wrapped
// buffer frees nothing, and the memory must stay valid for the buffer's
// lifetime.
func Wrap[T any](ptr unsafe.Pointer, length int) (*Buffer[T], error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if ptr == nil && length > 0 {
		return nil, ErrNilPointer
	}

	b := &Buffer[T]{}
	if length > 0 {
		b.data = unsafe.Slice((*T)(ptr), length)
	}
	return b, nil
}

// WrapSlice constructs a non-owning buffer over the backing array of s.
func WrapSlice[T any](s []T) *Buffer[T] {
	return &Buffer[T]{data: s}
}

// Len returns the element count. It is 0 after Release.
func (b *Buffer[T]) Len() int {
	if b.released.Load() {
		return 0
	}
	return len(b.data)
}

// Get returns the element at index.
func (b *Buffer[T]) Get(index int) (T, error) {
	var zero T
	if b.released.Load() {
		return zero, ErrReleased
	}
	if index < 0 || index >= len(b.data) {
		return zero, &ErrOutOfRange{Index: index, Length: len(b.data)}
	}
	return b.data[index], nil
}

// Set stores value at index.
func (b *Buffer[T]) Set(index int, value T) error {
	if b.released.Load() {
		return ErrReleased
	}
	if index < 0 || index >= len(b.data) {
		return &ErrOutOfRange{Index: index, Length: len(b.data)}
	}
	b.data[index] = value
	return nil
}

// View returns a non-owning view over [offset, offset+count).
// The view stays valid only until Release.
func (b *Buffer[T]) View(offset, count int) (View[T], error) {
	if b.released.Load() {
		return View[T]{}, ErrReleased
	}
	if offset < 0 || count < 0 || offset > len(b.data) || count > len(b.data)-offset {
		return View[T]{}, &ErrInvalidRange{Offset: offset, Count: count, Length: len(b.data)}
	}
	return View[T]{data: b.data[offset : offset+count : offset+count]}, nil
}

// Fill overwrites every element with value using the broadcast-fill kernel.
func (b *Buffer[T]) Fill(value T) error {
	if b.released.Load() {
		return ErrReleased
	}
	simd.Memset(b.data, value)
	return nil
}

// Clear overwrites every element with the zero value.
func (b *Buffer[T]) Clear() error {
	var zero T
	return b.Fill(zero)
}

// All returns a lazy, restartable iterator over (index, element) in index
// order. Iteration after Release yields nothing.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if b.released.Load() {
			return
		}
		for i, v := range b.data {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Slice exposes the underlying elements for hot loops.
// Warning: The slice is valid only until Release is called.
func (b *Buffer[T]) Slice() []T {
	if b.released.Load() {
		return nil
	}
	return b.data
}

// Bytes exposes the underlying region as raw bytes.
// Warning: The slice is valid only until Release is called.
func (b *Buffer[T]) Bytes() []byte {
	if b.released.Load() || len(b.data) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(b.data[0]))
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(b.data))), len(b.data)*size)
}

// Release returns the owned mapping to the operating system. The first call
// unmaps; any later call, and any other use of the buffer afterwards,
// reports ErrReleased. Views into the buffer become invalid immediately.
func (b *Buffer[T]) Release() error {
	if b.released.Swap(true) {
		return ErrReleased
	}
	b.data = nil
	if b.mapping != nil {
		return b.mapping.Close()
	}
	return nil
}

func (b *Buffer[T]) String() string {
	var zero T
	if b.released.Load() {
		return fmt.Sprintf("Buffer[%T]{released}", zero)
	}
	return fmt.Sprintf("Buffer[%T]{len: %d, owned: %t}", zero, len(b.data), b.mapping != nil)
}
