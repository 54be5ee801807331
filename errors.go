package rawbuf

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when a negative element count is requested.
	ErrInvalidLength = errors.New("rawbuf: invalid length")
	// ErrNilPointer is returned when wrapping a nil reference.
	ErrNilPointer = errors.New("rawbuf: nil pointer")
	// ErrSizeOverflow is returned when length * element size does not fit in int.
	ErrSizeOverflow = errors.New("rawbuf: byte size overflow")
	// ErrReleased is returned on any use of a buffer after Release,
	// including a second Release.
	ErrReleased = errors.New("rawbuf: buffer released")
	// ErrNonIntegralLength is returned by Reinterpret when the byte length is
	// not an exact multiple of the target element size.
	ErrNonIntegralLength = errors.New("rawbuf: non-integral element count")
	// ErrBadSnapshot is returned when a snapshot stream has an unknown magic,
	// version or compression.
	ErrBadSnapshot = errors.New("rawbuf: bad snapshot")
)

// ErrOutOfRange indicates an index outside [0, Length).
type ErrOutOfRange struct {
	Index  int
	Length int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("index out of range: %d with length %d", e.Index, e.Length)
}

// ErrInvalidRange indicates a view range not fully contained in [0, Length).
type ErrInvalidRange struct {
	Offset int
	Count  int
	Length int
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range: [%d, %d) with length %d", e.Offset, e.Offset+e.Count, e.Length)
}

// ErrElementSizeMismatch indicates a snapshot recorded for a different
// element size than the requested type.
type ErrElementSizeMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrElementSizeMismatch) Error() string {
	return fmt.Sprintf("element size mismatch: expected %d, got %d", e.Expected, e.Actual)
}
