package blockio

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, payload []byte, compression Compression, blockSize int) {
	t.Helper()

	var stream bytes.Buffer
	w := NewWriter(&stream, compression, blockSize)

	n, err := w.Write(payload)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.NoError(t, w.Flush())

	got, err := io.ReadAll(NewReader(&stream, compression))
	require.NoError(t, err)
	if len(payload) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, payload, got)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	compressible := bytes.Repeat([]byte("rawbuf block "), 10000)
	random := make([]byte, 100000)
	rng.Read(random)

	payloads := map[string][]byte{
		"empty":        nil,
		"tiny":         []byte("x"),
		"compressible": compressible,
		"random":       random,
	}

	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for name, payload := range payloads {
			t.Run(fmt.Sprintf("%s/%s", compression, name), func(t *testing.T) {
				roundTrip(t, payload, compression, 0)
			})
		}
	}
}

func TestRoundTrip_MultiBlock(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB, 0xCD}, 10000)

	// Block size much smaller than the payload forces many frames
	roundTrip(t, payload, CompressionLZ4, 512)
	roundTrip(t, payload, CompressionZSTD, 512)
	roundTrip(t, payload, CompressionNone, 512)
}

func TestWriter_BytesWritten(t *testing.T) {
	var stream bytes.Buffer
	w := NewWriter(&stream, CompressionLZ4, 0)

	_, err := w.Write(bytes.Repeat([]byte("a"), 10000))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, int64(stream.Len()), w.BytesWritten())
	// Highly repetitive input must compress
	assert.Less(t, stream.Len(), 10000)
}

func TestReader_TruncatedStream(t *testing.T) {
	var stream bytes.Buffer
	w := NewWriter(&stream, CompressionLZ4, 0)
	_, err := w.Write(bytes.Repeat([]byte("payload"), 1000))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	// Drop the tail of the stream
	truncated := stream.Bytes()[:stream.Len()-10]

	_, err = io.ReadAll(NewReader(bytes.NewReader(truncated), CompressionLZ4))
	assert.ErrorIs(t, err, ErrBlockCorrupt)
}

func TestReader_TruncatedHeader(t *testing.T) {
	_, err := io.ReadAll(NewReader(bytes.NewReader([]byte{1, 2, 3}), CompressionNone))
	assert.ErrorIs(t, err, ErrBlockCorrupt)
}

func TestCompression_String(t *testing.T) {
	assert.Equal(t, "none", CompressionNone.String())
	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "zstd", CompressionZSTD.String())
	assert.Equal(t, "unknown", Compression(9).String())

	assert.True(t, CompressionZSTD.Valid())
	assert.False(t, Compression(9).Valid())
}
