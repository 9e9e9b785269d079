package worker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
	"github.com/randomizedcoder/lock-benchmarks/internal/partition"
	"github.com/randomizedcoder/lock-benchmarks/internal/strategy"
	"github.com/randomizedcoder/lock-benchmarks/internal/worker"
)

func TestRun_SingleWorker(t *testing.T) {
	const n, m = 1000, 3
	bits, err := bitarray.New(n)
	require.NoError(t, err)

	st, err := worker.Run(bits, worker.Config{
		N: n, M: m, Strategy: strategy.NewNone(), Start: 0, Step: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(n*m), st.Iterations)
	assert.Equal(t, uint64(0), st.Rank)
	assert.False(t, st.Pinned)

	want, err := bitarray.New(n)
	require.NoError(t, err)
	for i := uint64(0); i < n*m; i++ {
		want.Toggle(partition.Target(i, n))
	}
	assert.Equal(t, want.Words(), bits.Words())
}

func TestRun_Stride(t *testing.T) {
	const n, m = 64, 1
	bits, err := bitarray.New(n)
	require.NoError(t, err)

	st, err := worker.Run(bits, worker.Config{
		N: n, M: m, Strategy: strategy.NewAtomic(), Start: 2, Step: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(16), st.Iterations)
	assert.Equal(t, uint64(2), st.Rank)

	want, err := bitarray.New(n)
	require.NoError(t, err)
	for i := uint64(2); i < n*m; i += 4 {
		want.Toggle(partition.Target(i, n))
	}
	assert.Equal(t, want.Checksum(), bits.Checksum())
}

// TestRun_Misconfigured verifies that a worker that cannot run leaves the
// array untouched.
func TestRun_Misconfigured(t *testing.T) {
	small, err := bitarray.New(10)
	require.NoError(t, err)
	small.Toggle(3) // sentinel

	testCases := []struct {
		name string
		bits *bitarray.BitArray
		cfg  worker.Config
	}{
		{"no-strategy", small, worker.Config{N: 10, M: 1, Step: 1}},
		{"no-array", nil, worker.Config{N: 10, M: 1, Step: 1, Strategy: strategy.NewMutex()}},
		{"array-too-small", small, worker.Config{N: 100, M: 1, Step: 1, Strategy: strategy.NewMutex()}},
		{"zero-step", small, worker.Config{N: 10, M: 1, Step: 0, Strategy: strategy.NewMutex()}},
		{"rank-out-of-range", small, worker.Config{N: 10, M: 1, Start: 2, Step: 2, Strategy: strategy.NewMutex()}},
		{"zero-repeat", small, worker.Config{N: 10, M: 0, Step: 1, Strategy: strategy.NewMutex()}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := worker.Run(tc.bits, tc.cfg)
			require.ErrorIs(t, err, worker.ErrMisconfigured)
			assert.Equal(t, []uint64{1 << 3}, small.Words())
		})
	}
}

type panicStrategy struct{ *strategy.NoneStrategy }

func (panicStrategy) Toggle(*bitarray.BitArray, uint64) { panic("boom") }

func TestRun_Panic(t *testing.T) {
	bits, err := bitarray.New(8)
	require.NoError(t, err)

	_, err = worker.Run(bits, worker.Config{
		N: 8, M: 1, Strategy: panicStrategy{strategy.NewNone()}, Step: 1,
	})
	require.ErrorIs(t, err, worker.ErrPanic)
	assert.Contains(t, err.Error(), "boom")
}

func TestRun_Pinned(t *testing.T) {
	bits, err := bitarray.New(64)
	require.NoError(t, err)

	st, err := worker.Run(bits, worker.Config{
		N: 64, M: 2, Strategy: strategy.NewMutex(), Step: 1, Pin: true, CPU: 0,
	})
	if err != nil {
		// Affinity syscalls may be filtered in a sandbox
		t.Skipf("pinning unavailable: %v", err)
	}
	assert.Equal(t, uint64(128), st.Iterations)
	assert.Zero(t, bits.Checksum())
}

func TestNumCPU(t *testing.T) {
	assert.Positive(t, worker.NumCPU())
}
