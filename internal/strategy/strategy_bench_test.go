package strategy_test

import (
	"sync/atomic"
	"testing"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
	"github.com/randomizedcoder/lock-benchmarks/internal/partition"
	"github.com/randomizedcoder/lock-benchmarks/internal/strategy"
)

// ============================================================================
// Uncontended: one goroutine, measures the bare cost of each toggle path
// ============================================================================

var sinkChecksum uint64

func benchToggle(b *testing.B, id strategy.ID) {
	s, err := strategy.New(id, strategy.WithGOOS("linux"))
	if err != nil {
		b.Fatal(err)
	}
	bits, err := bitarray.New(1 << 16)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Toggle(bits, uint64(i)&(1<<16-1))
	}
	b.StopTimer()
	sinkChecksum = bits.Checksum()
}

func BenchmarkToggle_None(b *testing.B)       { benchToggle(b, strategy.None) }
func BenchmarkToggle_Atomic(b *testing.B)     { benchToggle(b, strategy.Atomic) }
func BenchmarkToggle_SpinLock(b *testing.B)   { benchToggle(b, strategy.SpinLock) }
func BenchmarkToggle_OSSpinLock(b *testing.B) { benchToggle(b, strategy.OSSpinLock) }
func BenchmarkToggle_Mutex(b *testing.B)      { benchToggle(b, strategy.Mutex) }
func BenchmarkToggle_Semaphore(b *testing.B)  { benchToggle(b, strategy.Semaphore) }

// ============================================================================
// Contended: GOMAXPROCS goroutines, each with its own rank, same array
// ============================================================================

func benchToggleParallel(b *testing.B, id strategy.ID) {
	const n = 1_000_000
	s, err := strategy.New(id, strategy.WithGOOS("linux"))
	if err != nil {
		b.Fatal(err)
	}
	bits, err := bitarray.New(n)
	if err != nil {
		b.Fatal(err)
	}

	var rank atomic.Uint64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := rank.Add(1) - 1
		for pb.Next() {
			s.Toggle(bits, partition.Target(i, n))
			i += 64
		}
	})
	b.StopTimer()
	sinkChecksum = bits.Checksum()
}

func BenchmarkToggleParallel_Atomic(b *testing.B)     { benchToggleParallel(b, strategy.Atomic) }
func BenchmarkToggleParallel_SpinLock(b *testing.B)   { benchToggleParallel(b, strategy.SpinLock) }
func BenchmarkToggleParallel_OSSpinLock(b *testing.B) { benchToggleParallel(b, strategy.OSSpinLock) }
func BenchmarkToggleParallel_Mutex(b *testing.B)      { benchToggleParallel(b, strategy.Mutex) }
func BenchmarkToggleParallel_Semaphore(b *testing.B)  { benchToggleParallel(b, strategy.Semaphore) }
