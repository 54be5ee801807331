package rawbuf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	src := make([]uint64, 4096)
	for i := range src {
		src[i] = rng.Uint64()
	}

	buf, err := FromSlice(src)
	require.NoError(t, err)
	defer buf.Release()

	out, err := buf.ToSlice()
	require.NoError(t, err)
	assert.Equal(t, src, out)

	// The copy is independent of the buffer
	out[0]++
	got, err := buf.Get(0)
	require.NoError(t, err)
	assert.Equal(t, src[0], got)
	out[0]--

	// Converting back yields a byte-identical buffer
	back, err := FromSlice(out)
	require.NoError(t, err)
	defer back.Release()

	assert.Equal(t, buf.Bytes(), back.Bytes())
}

func TestFromSlice_Empty(t *testing.T) {
	buf, err := FromSlice([]int32(nil))
	require.NoError(t, err)
	defer buf.Release()

	assert.Equal(t, 0, buf.Len())
}
