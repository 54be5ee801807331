package rawbuf

import (
	"bytes"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedBuffer(t *testing.T, n int) *Buffer[uint32] {
	t.Helper()

	rng := rand.New(rand.NewSource(int64(n)))
	src := make([]uint32, n)
	for i := range src {
		src[i] = rng.Uint32()
	}

	buf, err := FromSlice(src)
	require.NoError(t, err)
	return buf
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(compression.String(), func(t *testing.T) {
			buf := populatedBuffer(t, 100000)
			defer buf.Release()

			var stream bytes.Buffer
			n, err := buf.Snapshot(&stream, WithCompression(compression))
			require.NoError(t, err)
			assert.Equal(t, int64(stream.Len()), n)

			restored, err := Load[uint32](&stream)
			require.NoError(t, err)
			defer restored.Release()

			assert.Equal(t, buf.Len(), restored.Len())
			assert.Equal(t, buf.Bytes(), restored.Bytes())
		})
	}
}

func TestSnapshotRoundTrip_Empty(t *testing.T) {
	buf, err := Alloc[uint32](0)
	require.NoError(t, err)
	defer buf.Release()

	var stream bytes.Buffer
	_, err = buf.Snapshot(&stream)
	require.NoError(t, err)

	restored, err := Load[uint32](&stream)
	require.NoError(t, err)
	defer restored.Release()

	assert.Equal(t, 0, restored.Len())
}

func TestSnapshot_SmallBlocks(t *testing.T) {
	buf := populatedBuffer(t, 50000)
	defer buf.Release()

	var stream bytes.Buffer
	_, err := buf.Snapshot(&stream, WithBlockSize(1024))
	require.NoError(t, err)

	restored, err := Load[uint32](&stream)
	require.NoError(t, err)
	defer restored.Release()

	assert.Equal(t, buf.Bytes(), restored.Bytes())
}

func TestSnapshot_Released(t *testing.T) {
	buf, err := Alloc[uint32](10)
	require.NoError(t, err)
	require.NoError(t, buf.Release())

	var stream bytes.Buffer
	_, err = buf.Snapshot(&stream)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestLoad_ElementSizeMismatch(t *testing.T) {
	buf := populatedBuffer(t, 16)
	defer buf.Release()

	var stream bytes.Buffer
	_, err := buf.Snapshot(&stream)
	require.NoError(t, err)

	var mismatch *ErrElementSizeMismatch
	_, err = Load[uint64](&stream)
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 8, mismatch.Expected)
	assert.Equal(t, 4, mismatch.Actual)
}

func TestLoad_BadStream(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := Load[uint32](bytes.NewReader(bytes.Repeat([]byte{0}, snapshotHeaderSize)))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := Load[uint32](bytes.NewReader([]byte("RBUF")))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("truncated payload", func(t *testing.T) {
		buf := populatedBuffer(t, 1000)
		defer buf.Release()

		var stream bytes.Buffer
		_, err := buf.Snapshot(&stream)
		require.NoError(t, err)

		_, err = Load[uint32](bytes.NewReader(stream.Bytes()[:stream.Len()-20]))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})

	t.Run("unknown version", func(t *testing.T) {
		buf := populatedBuffer(t, 4)
		defer buf.Release()

		var stream bytes.Buffer
		_, err := buf.Snapshot(&stream)
		require.NoError(t, err)

		raw := stream.Bytes()
		raw[4] = 99
		_, err = Load[uint32](bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrBadSnapshot)
	})
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	buf := populatedBuffer(t, 25000)
	defer buf.Release()

	path := filepath.Join(t.TempDir(), "buffer.snap")
	require.NoError(t, buf.SnapshotFile(path, WithCompression(CompressionZSTD)))

	restored, err := LoadFile[uint32](path)
	require.NoError(t, err)
	defer restored.Release()

	assert.Equal(t, buf.Bytes(), restored.Bytes())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile[uint32](filepath.Join(t.TempDir(), "missing.snap"))
	assert.Error(t, err)
}

func TestSnapshot_WithLogger(t *testing.T) {
	buf := populatedBuffer(t, 100)
	defer buf.Release()

	var logOutput bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var stream bytes.Buffer
	_, err := buf.Snapshot(&stream, WithSnapshotLogger(logger))
	require.NoError(t, err)

	_, err = Load[uint32](&stream, WithSnapshotLogger(logger))
	require.NoError(t, err)

	out := logOutput.String()
	assert.Contains(t, out, "snapshot written")
	assert.Contains(t, out, "snapshot loaded")
}
