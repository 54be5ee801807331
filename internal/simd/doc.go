// Package simd implements the vectorized broadcast-fill kernel.
//
// # Supported Platforms
//
//   - x86-64: AVX2 (256-bit), SSE2 baseline (128-bit)
//   - ARM64: NEON (128-bit)
//
// Runtime CPU feature detection selects the widest usable kernel once at
// package init. Set RAWBUF_SIMD (generic, sse2, neon, avx2) to override the
// selection; an override naming an unavailable ISA falls back to
// auto-detection.
//
// # Kernel
//
// Memset broadcasts a single element value across a memory region using
// paired full-width vector stores, with an unrolled scalar fallback for
// element shapes the vector path cannot represent (sizes that are not a
// power of two or exceed one vector) and for regions smaller than one
// vector.
package simd
