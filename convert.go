package rawbuf

// ToSlice copies the buffer's contents into a fresh garbage-collected slice.
func (b *Buffer[T]) ToSlice() ([]T, error) {
	if b.released.Load() {
		return nil, ErrReleased
	}
	out := make([]T, len(b.data))
	copy(out, b.data)
	return out, nil
}

// FromSlice allocates a new buffer and copies src into it byte for byte.
func FromSlice[T any](src []T) (*Buffer[T], error) {
	b, err := Alloc[T](len(src))
	if err != nil {
		return nil, err
	}
	copy(b.data, src)
	return b, nil
}

// CopyTo copies the view's contents into dst, returning the number of
// elements copied.
func (v View[T]) CopyTo(dst []T) int {
	return copy(dst, v.data)
}
