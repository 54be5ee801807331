// Package mmap provides the raw memory regions that back rawbuf buffers.
//
// # Overview
//
// Buffers are backed by anonymous read-write mappings obtained directly from
// the operating system, outside the Go garbage collector's control. Releasing
// a buffer returns the pages to the OS immediately instead of waiting for a
// collection cycle.
//
// # Usage
//
//	m, err := mmap.MapAnon(size)
//	if err != nil { ... }
//	defer m.Close()
//
//	// Direct access to the mapped region
//	data := m.Bytes()
//
// Read-only file mappings are also supported for zero-copy snapshot loading:
//
//	m, err := mmap.Open("buffer.snap")
//	m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON, madvise(2) for hints
//   - Windows: VirtualAlloc for anonymous memory, CreateFileMapping for files
//     (madvise is a no-op)
//
// # Thread Safety
//
// Mapping is safe for concurrent read access. Close() is idempotent and
// protected by atomic operations. Callers must ensure no goroutines access
// Bytes() after Close() returns.
package mmap
