package rawbuf

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/hupe1980/rawbuf/internal/blockio"
	"github.com/hupe1980/rawbuf/internal/conv"
	"github.com/hupe1980/rawbuf/internal/mmap"
)

// Snapshot stream layout:
//
//	[Magic "RBUF"][Version uint8][Compression uint8][Reserved uint16]
//	[ElemSize uint32][Length uint64]
//	[block stream...]
//
// The header is stored uncompressed; the payload is a blockio stream.
const (
	snapshotMagic      = "RBUF"
	snapshotVersion    = 1
	snapshotHeaderSize = 20
)

// Snapshot writes the buffer's contents to w as a framed, block-compressed
// stream and returns the number of bytes written.
func (b *Buffer[T]) Snapshot(w io.Writer, opts ...SnapshotOption) (int64, error) {
	o := applySnapshotOptions(opts)

	n, err := b.snapshot(w, o)
	o.logger.LogSnapshot(b.Len(), n, o.compression, err)
	return n, err
}

func (b *Buffer[T]) snapshot(w io.Writer, o snapshotOptions) (int64, error) {
	if b.released.Load() {
		return 0, ErrReleased
	}
	if !blockio.Compression(o.compression).Valid() {
		return 0, fmt.Errorf("%w: unknown compression %d", ErrBadSnapshot, o.compression)
	}

	var zero T
	elemSize, err := conv.IntToUint32(int(unsafe.Sizeof(zero)))
	if err != nil {
		return 0, err
	}
	length, err := conv.IntToUint64(len(b.data))
	if err != nil {
		return 0, err
	}

	var header [snapshotHeaderSize]byte
	copy(header[0:4], snapshotMagic)
	header[4] = snapshotVersion
	header[5] = byte(o.compression)
	binary.LittleEndian.PutUint32(header[8:], elemSize)
	binary.LittleEndian.PutUint64(header[12:], length)

	if _, err := w.Write(header[:]); err != nil {
		return 0, err
	}
	written := int64(snapshotHeaderSize)

	payload := b.Bytes()
	if len(payload) == 0 {
		return written, nil
	}

	bw := blockio.NewWriter(w, blockio.Compression(o.compression), o.blockSize)
	if _, err := bw.Write(payload); err != nil {
		return written + bw.BytesWritten(), err
	}
	if err := bw.Flush(); err != nil {
		return written + bw.BytesWritten(), err
	}
	return written + bw.BytesWritten(), nil
}

// Load reads a snapshot produced by Snapshot into a freshly allocated
// buffer. The element size recorded in the stream must match sizeof(T);
// the compression algorithm is taken from the header.
func Load[T any](r io.Reader, opts ...SnapshotOption) (*Buffer[T], error) {
	o := applySnapshotOptions(opts)

	b, compression, err := load[T](r)
	elements := 0
	if b != nil {
		elements = b.Len()
	}
	o.logger.LogLoad(elements, compression, err)
	return b, err
}

func load[T any](r io.Reader) (*Buffer[T], Compression, error) {
	var header [snapshotHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, CompressionNone, fmt.Errorf("%w: short header: %w", ErrBadSnapshot, err)
	}

	if string(header[0:4]) != snapshotMagic {
		return nil, CompressionNone, fmt.Errorf("%w: bad magic", ErrBadSnapshot)
	}
	if header[4] != snapshotVersion {
		return nil, CompressionNone, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, header[4])
	}
	compression := Compression(header[5])
	if !blockio.Compression(compression).Valid() {
		return nil, compression, fmt.Errorf("%w: unknown compression %d", ErrBadSnapshot, header[5])
	}

	var zero T
	elemSize := int(binary.LittleEndian.Uint32(header[8:]))
	if want := int(unsafe.Sizeof(zero)); elemSize != want {
		return nil, compression, &ErrElementSizeMismatch{Expected: want, Actual: elemSize}
	}

	length, err := conv.Uint64ToInt(binary.LittleEndian.Uint64(header[12:]))
	if err != nil {
		return nil, compression, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	b, err := Alloc[T](length)
	if err != nil {
		return nil, compression, err
	}

	payload := b.Bytes()
	if len(payload) > 0 {
		br := blockio.NewReader(r, blockio.Compression(compression))
		if _, err := io.ReadFull(br, payload); err != nil {
			_ = b.Release()
			return nil, compression, fmt.Errorf("%w: truncated payload: %w", ErrBadSnapshot, err)
		}
	}
	return b, compression, nil
}

// SnapshotFile writes a snapshot to the file at path, creating or
// truncating it.
func (b *Buffer[T]) SnapshotFile(path string, opts ...SnapshotOption) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if _, err := b.Snapshot(bw, opts...); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a snapshot from the file at path through a read-only
// memory mapping with a sequential-access hint.
func LoadFile[T any](path string, opts ...SnapshotOption) (*Buffer[T], error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	// Advisory only; ignore failures.
	_ = m.Advise(mmap.AccessSequential)

	return Load[T](bytes.NewReader(m.Bytes()), opts...)
}
