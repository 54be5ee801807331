package rawbuf

import (
	"fmt"
	"unsafe"
)

// Reinterpret returns a buffer over the same memory typed as element kind U,
// with length len(b) * sizeof(T) / sizeof(U).
//
// The byte length must be an exact multiple of sizeof(U); a remainder is
// reported as ErrNonIntegralLength, never silently truncated. The result
// borrows the memory: releasing it frees nothing, and it becomes invalid
// when the source buffer is released.
func Reinterpret[U, T any](b *Buffer[T]) (*Buffer[U], error) {
	if b.released.Load() {
		return nil, ErrReleased
	}

	var (
		zeroT T
		zeroU U
	)
	tSize := unsafe.Sizeof(zeroT)
	uSize := unsafe.Sizeof(zeroU)
	if uSize == 0 {
		return nil, fmt.Errorf("%w: zero-size target element", ErrNonIntegralLength)
	}

	byteLen := uintptr(len(b.data)) * tSize
	if byteLen%uSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrNonIntegralLength, byteLen, uSize)
	}

	out := &Buffer[U]{}
	if newLen := int(byteLen / uSize); newLen > 0 {
		out.data = unsafe.Slice((*U)(unsafe.Pointer(unsafe.SliceData(b.data))), newLen)
	}
	return out, nil
}
