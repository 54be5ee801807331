// Package rawbuf provides manually-managed, fixed-capacity array primitives
// for performance-sensitive code.
//
// A Buffer owns a contiguous off-heap memory region sized for a fixed element
// count; a View is a non-owning, bounds-checked window into one. Fill and
// Clear broadcast a single value across a region using the widest vector
// kernel the CPU supports, with a scalar fallback for element shapes the
// vector path cannot represent.
//
// # Quick Start
//
//	buf, err := rawbuf.Alloc[int32](1024)
//	if err != nil { ... }
//	defer buf.Release()
//
//	v, _ := buf.View(0, buf.Len())
//	v.Fill(7)       // vectorized broadcast fill
//	v.Clear()       // all-bits-zero
//
// # Memory Model
//
// Buffer memory comes from one anonymous mapping per buffer, outside the Go
// garbage collector. Release unmaps it; a second Release and any access after
// Release report ErrReleased instead of corrupting memory. Views never
// allocate or free, and must not outlive the buffer they point into - that
// remains the caller's obligation.
//
// Element types must not contain Go pointers: the collector does not scan
// off-heap regions.
//
// # Snapshots
//
// A buffer's contents can be written to an io.Writer as a framed,
// block-compressed snapshot (LZ4 or zstd) and loaded back into a fresh
// buffer, byte for byte:
//
//	_, err := buf.Snapshot(w, rawbuf.WithCompression(rawbuf.CompressionLZ4))
//	restored, err := rawbuf.Load[int32](r)
//
// # Non-Goals
//
// rawbuf is not a general allocator: no pooling, no free lists, no resizing.
// One allocation per buffer, released exactly once.
package rawbuf
