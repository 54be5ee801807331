package rawbuf

import "github.com/hupe1980/rawbuf/internal/blockio"

// Compression selects the snapshot block compression algorithm.
type Compression uint8

const (
	// CompressionNone disables compression.
	CompressionNone = Compression(blockio.CompressionNone)
	// CompressionLZ4 selects LZ4 block compression (fast, the default).
	CompressionLZ4 = Compression(blockio.CompressionLZ4)
	// CompressionZSTD selects ZSTD block compression (better ratio, slower).
	CompressionZSTD = Compression(blockio.CompressionZSTD)
)

// String returns the string representation of a Compression.
func (c Compression) String() string {
	return blockio.Compression(c).String()
}

type allocOptions struct {
	zeroFill bool
}

// AllocOption configures Alloc behavior.
type AllocOption func(*allocOptions)

// WithZeroFill guarantees the allocated region is all-bits-zero.
// Without it, the contents of a fresh buffer are unspecified.
func WithZeroFill() AllocOption {
	return func(o *allocOptions) {
		o.zeroFill = true
	}
}

type snapshotOptions struct {
	compression Compression
	blockSize   int
	logger      *Logger
}

// SnapshotOption configures Snapshot and Load behavior.
type SnapshotOption func(*snapshotOptions)

// WithCompression sets the block compression algorithm for Snapshot.
// Load ignores it: the algorithm is recorded in the snapshot header.
func WithCompression(c Compression) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed block size for Snapshot.
// Values <= 0 select the default (256 KiB).
func WithBlockSize(size int) SnapshotOption {
	return func(o *snapshotOptions) {
		o.blockSize = size
	}
}

// WithSnapshotLogger sets the logger for snapshot and load operations.
// The default discards all output.
func WithSnapshotLogger(l *Logger) SnapshotOption {
	return func(o *snapshotOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func applySnapshotOptions(opts []SnapshotOption) snapshotOptions {
	o := snapshotOptions{
		compression: CompressionLZ4,
		logger:      NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
