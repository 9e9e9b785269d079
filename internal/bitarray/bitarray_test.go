package bitarray_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		n     uint64
		words int
	}{
		{1, 1},
		{63, 1},
		{64, 1},
		{65, 2},
		{1000, 16},
		{1_000_000, 15625},
	}

	for _, tc := range testCases {
		b, err := bitarray.New(tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.n, b.Len())
		assert.Len(t, b.Words(), tc.words, "n=%d", tc.n)
		assert.Zero(t, b.Checksum())
	}
}

func TestNew_Zero(t *testing.T) {
	_, err := bitarray.New(0)
	require.ErrorIs(t, err, bitarray.ErrSize)
}

func TestNew_AllocFailure(t *testing.T) {
	_, err := bitarray.New(^uint64(0))
	require.ErrorIs(t, err, bitarray.ErrAlloc)
}

func TestToggle_FlipsOnlyTargetBit(t *testing.T) {
	b, err := bitarray.New(128)
	require.NoError(t, err)

	b.Toggle(70)
	assert.True(t, b.Bit(70))
	assert.Equal(t, uint64(0), b.Words()[0])
	assert.Equal(t, uint64(1)<<6, b.Words()[1])

	for x := uint64(0); x < 128; x++ {
		if x != 70 {
			assert.False(t, b.Bit(x), "bit %d", x)
		}
	}

	// Self-inverse
	b.Toggle(70)
	assert.False(t, b.Bit(70))
	assert.Zero(t, b.Checksum())
}

func TestWordAndMask(t *testing.T) {
	b, err := bitarray.New(200)
	require.NoError(t, err)

	for _, x := range []uint64{0, 63, 64, 127, 199} {
		*b.Word(x) ^= bitarray.Mask(x)
		assert.True(t, b.Bit(x), "bit %d", x)
	}
	assert.Equal(t, &b.Words()[3], b.Word(199))
}

func TestChecksum(t *testing.T) {
	b, err := bitarray.New(256)
	require.NoError(t, err)

	b.Toggle(1)   // word 0
	b.Toggle(65)  // word 1, same offset as bit 1
	b.Toggle(130) // word 2
	assert.Equal(t, uint64(1)<<2, b.Checksum())

	b.Reset()
	assert.Zero(t, b.Checksum())
	for _, w := range b.Words() {
		assert.Zero(t, w)
	}
}
