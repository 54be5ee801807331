package simd

import (
	"unsafe"
)

// maxVectorBytes is the widest vector pattern the broadcast table can build
// (256-bit). AVX-512 is deliberately not used: the size-class table below
// only defines 128-bit and 256-bit patterns.
const maxVectorBytes = 32

// Memset overwrites every element of dst with v.
//
// The result is byte-for-byte equivalent to assigning v at every index. No
// memory outside the slice is touched; within it, the vectorized path may
// rewrite trailing bytes with the identical pattern (see memsetVector16/32).
//
// The vectorized path is taken when a vector kernel is active, sizeof(T) is
// a power of two no larger than one vector, and dst spans at least one full
// vector. Everything else runs the unrolled scalar path. The eligibility
// checks compile down to constants for a given T.
//
// SAFETY: T must not contain pointers. Buffers handed to Memset typically
// live in off-heap memory the garbage collector does not scan.
func Memset[T any](dst []T, v T) {
	n := uintptr(len(dst))
	if n == 0 {
		return
	}

	size := unsafe.Sizeof(v)
	w := uintptr(vectorWidth)
	if w == 0 || size == 0 || size > w || size&(size-1) != 0 || n*size < w {
		memsetScalar(dst, v)
		return
	}

	pat := broadcast(&v, size)
	memsetVector(unsafe.Pointer(unsafe.SliceData(dst)), n*size, &pat)
}

// broadcast replicates the size bytes at v across a full 256-bit pattern.
// The construction strategy is keyed on the element byte size; eligibility
// guarantees size is a power of two not exceeding maxVectorBytes. When the
// active vector is 128-bit only the first half of the pattern is used.
func broadcast[T any](v *T, size uintptr) (pat [maxVectorBytes]byte) {
	src := unsafe.Pointer(v)
	dst := unsafe.Pointer(&pat[0])

	switch size {
	case 1:
		b := *(*byte)(src)
		for i := range pat {
			pat[i] = b
		}
	case 2:
		u := *(*uint16)(src)
		for o := uintptr(0); o < maxVectorBytes; o += 2 {
			*(*uint16)(unsafe.Add(dst, o)) = u
		}
	case 4:
		// float32 lanes are built from the floating representation directly,
		// sparing a round trip through the integer domain.
		if f, ok := any(*v).(float32); ok {
			for o := uintptr(0); o < maxVectorBytes; o += 4 {
				*(*float32)(unsafe.Add(dst, o)) = f
			}
		} else {
			u := *(*uint32)(src)
			for o := uintptr(0); o < maxVectorBytes; o += 4 {
				*(*uint32)(unsafe.Add(dst, o)) = u
			}
		}
	case 8:
		if f, ok := any(*v).(float64); ok {
			for o := uintptr(0); o < maxVectorBytes; o += 8 {
				*(*float64)(unsafe.Add(dst, o)) = f
			}
		} else {
			u := *(*uint64)(src)
			for o := uintptr(0); o < maxVectorBytes; o += 8 {
				*(*uint64)(unsafe.Add(dst, o)) = u
			}
		}
	case 16:
		// The whole element is one pre-formed 128-bit pattern; duplicating it
		// into the upper half covers the 256-bit case too.
		lane := *(*[16]byte)(src)
		*(*[16]byte)(dst) = lane
		*(*[16]byte)(unsafe.Add(dst, 16)) = lane
	case 32:
		// The element itself is the full 256-bit pattern. Eligibility already
		// required a 256-bit vector, so this is only reached with AVX2.
		*(*[32]byte)(dst) = *(*[32]byte)(src)
	}
	return pat
}

func memsetVector(p unsafe.Pointer, total uintptr, pat *[maxVectorBytes]byte) {
	if vectorWidth == 32 {
		memsetVector32(p, total, pat)
	} else {
		memsetVector16(p, total, (*[16]byte)(unsafe.Pointer(pat)))
	}
}

// memsetVector32 fills total bytes at p with the 256-bit pattern.
// Precondition: total >= 32.
func memsetVector32(p unsafe.Pointer, total uintptr, pat *[32]byte) {
	v := *pat

	// Paired stores amortize loop overhead; stop is the largest multiple of
	// 2*width not exceeding total.
	stop := total &^ 63
	var o uintptr
	for o < stop {
		*(*[32]byte)(unsafe.Add(p, o)) = v
		*(*[32]byte)(unsafe.Add(p, o+32)) = v
		o += 64
	}

	// Odd whole-vector count leaves one full vector after the pair loop.
	if total&32 != 0 {
		*(*[32]byte)(unsafe.Add(p, o)) = v
	}

	// Unconditional store at the last vector-aligned position. It may overlap
	// bytes written above, but every overlapping byte carries the identical
	// pattern, so the partial tail is covered without a scalar cleanup loop.
	*(*[32]byte)(unsafe.Add(p, total-32)) = v
}

// memsetVector16 fills total bytes at p with the 128-bit pattern.
// Precondition: total >= 16.
func memsetVector16(p unsafe.Pointer, total uintptr, pat *[16]byte) {
	v := *pat

	stop := total &^ 31
	var o uintptr
	for o < stop {
		*(*[16]byte)(unsafe.Add(p, o)) = v
		*(*[16]byte)(unsafe.Add(p, o+16)) = v
		o += 32
	}

	if total&16 != 0 {
		*(*[16]byte)(unsafe.Add(p, o)) = v
	}

	*(*[16]byte)(unsafe.Add(p, total-16)) = v
}

// memsetScalar is the fallback for ineligible element shapes and for runs
// smaller than one vector: an 8-way unrolled loop, then remainder tiers of
// 4, 2 and 1, each taken at most once.
func memsetScalar[T any](dst []T, v T) {
	i := 0
	for ; len(dst)-i >= 8; i += 8 {
		dst[i+0] = v
		dst[i+1] = v
		dst[i+2] = v
		dst[i+3] = v
		dst[i+4] = v
		dst[i+5] = v
		dst[i+6] = v
		dst[i+7] = v
	}
	if len(dst)-i >= 4 {
		dst[i+0] = v
		dst[i+1] = v
		dst[i+2] = v
		dst[i+3] = v
		i += 4
	}
	if len(dst)-i >= 2 {
		dst[i+0] = v
		dst[i+1] = v
		i += 2
	}
	if len(dst)-i == 1 {
		dst[i] = v
	}
}
