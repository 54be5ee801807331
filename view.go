package rawbuf

import (
	"iter"
	"unsafe"

	"github.com/hupe1980/rawbuf/internal/simd"
)

// View is a non-owning, bounds-checked window over a contiguous run of
// elements inside some buffer. It never allocates or frees; its validity is
// bounded by the lifetime of the memory it points into, which is the
// caller's responsibility.
//
// Views are cheap values and may be copied freely.
type View[T any] struct {
	data []T
}

// ViewOf constructs a view directly over the backing array of s.
func ViewOf[T any](s []T) View[T] {
	return View[T]{data: s}
}

// Len returns the element count.
func (v View[T]) Len() int {
	return len(v.data)
}

// Get returns the element at index.
func (v View[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(v.data) {
		return zero, &ErrOutOfRange{Index: index, Length: len(v.data)}
	}
	return v.data[index], nil
}

// Set stores value at index.
func (v View[T]) Set(index int, value T) error {
	if index < 0 || index >= len(v.data) {
		return &ErrOutOfRange{Index: index, Length: len(v.data)}
	}
	v.data[index] = value
	return nil
}

// Fill overwrites every viewed element with value using the broadcast-fill
// kernel: the widest available vector path when the element shape qualifies,
// the unrolled scalar path otherwise.
func (v View[T]) Fill(value T) {
	simd.Memset(v.data, value)
}

// Clear overwrites every viewed element with the zero value.
func (v View[T]) Clear() {
	var zero T
	simd.Memset(v.data, zero)
}

// All returns a lazy, restartable iterator over (index, element) in index
// order.
func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, e := range v.data {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Slice exposes the viewed elements for hot loops.
// Warning: The slice is valid only as long as the underlying memory.
func (v View[T]) Slice() []T {
	return v.data
}

// Bytes exposes the viewed region as raw bytes.
// Warning: The slice is valid only as long as the underlying memory.
func (v View[T]) Bytes() []byte {
	if len(v.data) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(v.data[0]))
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v.data))), len(v.data)*size)
}
