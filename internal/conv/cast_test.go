//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint32(0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("valid positive", func(t *testing.T) {
		got, err := IntToUint32(123)
		assert.NoError(t, err)
		assert.Equal(t, uint32(123), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.Error(t, err)
	})

	t.Run("valid max uint32", func(t *testing.T) {
		got, err := IntToUint32(math.MaxUint32)
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := IntToUint32(math.MaxUint32 + 1)
		assert.Error(t, err)
	})
}

func TestIntToUint64(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint64(0)
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint64(-1)
		assert.Error(t, err)
	})
}

func TestUint64ToInt(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := Uint64ToInt(42)
		assert.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Uint64ToInt(math.MaxUint64)
		assert.Error(t, err)
	})
}

func TestUint32ToInt(t *testing.T) {
	got, err := Uint32ToInt(math.MaxUint32)
	assert.NoError(t, err)
	assert.Equal(t, int(math.MaxUint32), got)
}

func TestMulInt(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := MulInt(1000, 24)
		assert.NoError(t, err)
		assert.Equal(t, 24000, got)
	})

	t.Run("zero operand", func(t *testing.T) {
		got, err := MulInt(0, math.MaxInt)
		assert.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("invalid negative operand", func(t *testing.T) {
		_, err := MulInt(-1, 8)
		assert.Error(t, err)
	})

	t.Run("invalid overflow", func(t *testing.T) {
		_, err := MulInt(math.MaxInt, 2)
		assert.Error(t, err)
	})

	t.Run("max int exactly", func(t *testing.T) {
		got, err := MulInt(math.MaxInt, 1)
		assert.NoError(t, err)
		assert.Equal(t, math.MaxInt, got)
	})
}
