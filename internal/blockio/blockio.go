// Package blockio implements framed block compression for buffer snapshots.
//
// The stream is a sequence of independently compressed blocks:
//
//	[UncompressedSize uint32][CompressedSize uint32][Data...]
//
// A CompressedSize of 0 marks a block stored uncompressed (used when
// compression does not pay off, e.g. already-random payloads).
package blockio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/rawbuf/internal/conv"
)

// Compression defines the compression algorithm used for snapshot blocks.
type Compression uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone Compression = 0
	// CompressionLZ4 indicates LZ4 block compression (fast, good default).
	CompressionLZ4 Compression = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio, slower).
	CompressionZSTD Compression = 2
)

// String returns the string representation of a Compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// Valid reports whether c names a known algorithm.
func (c Compression) Valid() bool {
	return c <= CompressionZSTD
}

const (
	blockHeaderSize = 8

	// DefaultBlockSize is the uncompressed size of one block.
	DefaultBlockSize = 256 * 1024
)

var (
	// ErrBlockCorrupt is returned when a block frame is inconsistent.
	ErrBlockCorrupt = errors.New("blockio: corrupt block")
)

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressBlock frames and compresses one block.
// If compression does not help (ratio > 0.9), the block is stored uncompressed.
func compressBlock(data []byte, compression Compression) ([]byte, error) {
	var compressed []byte
	var err error

	switch compression {
	case CompressionLZ4:
		compressed, err = compressBlockLZ4(data)
	case CompressionZSTD:
		compressed, err = compressBlockZSTD(data)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, blockHeaderSize+len(data))
		if err := putBlockHeader(result, len(data), 0); err != nil {
			return nil, err
		}
		copy(result[blockHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, blockHeaderSize+len(compressed))
	if err := putBlockHeader(result, len(data), len(compressed)); err != nil {
		return nil, err
	}
	copy(result[blockHeaderSize:], compressed)
	return result, nil
}

func putBlockHeader(dst []byte, uncompressed, compressed int) error {
	u, err := conv.IntToUint32(uncompressed)
	if err != nil {
		return err
	}
	c, err := conv.IntToUint32(compressed)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(dst[0:], u)
	binary.LittleEndian.PutUint32(dst[4:], c)
	return nil
}

func compressBlockLZ4(data []byte) ([]byte, error) {
	maxCompressedSize := lz4.CompressBlockBound(len(data))
	compressed := make([]byte, maxCompressedSize)

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

func compressBlockZSTD(data []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil), nil
}

// decompressBlock reverses compressBlock for one block body.
func decompressBlock(body []byte, uncompressedSize int, compression Compression, compressed bool) ([]byte, error) {
	if !compressed {
		return body, nil
	}

	result := make([]byte, uncompressedSize)
	switch compression {
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(body, result[:0])
		if err != nil {
			return nil, err
		}
		if len(decoded) != uncompressedSize {
			return nil, ErrBlockCorrupt
		}
		return decoded, nil

	default: // LZ4 or fallback
		n, err := lz4.UncompressBlock(body, result)
		if err != nil {
			return nil, err
		}
		if n != uncompressedSize {
			return nil, ErrBlockCorrupt
		}
		return result, nil
	}
}

// Writer writes compressed blocks to an underlying writer.
type Writer struct {
	w           io.Writer
	compression Compression
	blockSize   int
	buffer      *bytes.Buffer
	written     int64
}

// NewWriter creates a block writer. A blockSize <= 0 selects DefaultBlockSize.
func NewWriter(w io.Writer, compression Compression, blockSize int) *Writer {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Writer{
		w:           w,
		compression: compression,
		blockSize:   blockSize,
		buffer:      bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

// Write buffers p, flushing full blocks as needed.
func (c *Writer) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := c.blockSize - c.buffer.Len()
		if space <= 0 {
			if err := c.flushBlock(); err != nil {
				return total, err
			}
			space = c.blockSize
		}

		toWrite := len(p)
		if toWrite > space {
			toWrite = space
		}

		n, err := c.buffer.Write(p[:toWrite])
		if err != nil {
			return total, err
		}
		total += n
		p = p[n:]
	}
	return total, nil
}

func (c *Writer) flushBlock() error {
	if c.buffer.Len() == 0 {
		return nil
	}

	block, err := compressBlock(c.buffer.Bytes(), c.compression)
	if err != nil {
		return err
	}

	n, err := c.w.Write(block)
	if err != nil {
		return err
	}
	c.written += int64(n)
	c.buffer.Reset()
	return nil
}

// Flush writes any remaining buffered data.
func (c *Writer) Flush() error {
	return c.flushBlock()
}

// BytesWritten returns the total compressed bytes written.
func (c *Writer) BytesWritten() int64 {
	return c.written
}

// Reader streams decompressed data from a sequence of blocks.
type Reader struct {
	r           io.Reader
	compression Compression
	buf         []byte
	off         int
	header      [blockHeaderSize]byte
}

// NewReader creates a reader for a block stream produced by Writer.
func NewReader(r io.Reader, compression Compression) *Reader {
	return &Reader{
		r:           r,
		compression: compression,
	}
}

// Read implements io.Reader over the decompressed stream.
func (c *Reader) Read(p []byte) (int, error) {
	for c.off >= len(c.buf) {
		if err := c.nextBlock(); err != nil {
			return 0, err
		}
	}
	n := copy(p, c.buf[c.off:])
	c.off += n
	return n, nil
}

func (c *Reader) nextBlock() error {
	if _, err := io.ReadFull(c.r, c.header[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return ErrBlockCorrupt
		}
		return err // io.EOF at a block boundary is a clean end of stream
	}

	uncompressedSize, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(c.header[0:]))
	if err != nil {
		return err
	}
	compressedSize, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(c.header[4:]))
	if err != nil {
		return err
	}

	bodySize := compressedSize
	compressed := true
	if compressedSize == 0 {
		bodySize = uncompressedSize
		compressed = false
	}

	body := make([]byte, bodySize)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return ErrBlockCorrupt
	}

	block, err := decompressBlock(body, uncompressedSize, c.compression, compressed)
	if err != nil {
		return err
	}

	c.buf = block
	c.off = 0
	return nil
}
