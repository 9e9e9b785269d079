package sweep

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/randomizedcoder/lock-benchmarks/internal/worker"
)

// ============================================================================
// Collector: sharded lock-free ring vs a mutex-guarded slice
// ============================================================================
//
// Workers publish from their own goroutines; the collector must not become
// a second contention point next to the lock under test.

func BenchmarkCollector_Ring_8P(b *testing.B) {
	c, err := newCollector(8)
	if err != nil {
		b.Fatal(err)
	}
	done := make(chan struct{})
	consumerDone := make(chan struct{})

	go func() {
		defer close(consumerDone)
		for {
			select {
			case <-done:
				return
			default:
				c.r.TryRead()
			}
		}
	}()

	var producerID atomic.Uint64
	b.SetParallelism(8)
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		st := worker.Stats{Rank: producerID.Add(1) - 1}
		for pb.Next() {
			for !c.r.Write(st.Rank, st) {
			}
		}
	})

	b.StopTimer()
	close(done)
	<-consumerDone
}

func BenchmarkCollector_MutexSlice_8P(b *testing.B) {
	var (
		mu  sync.Mutex
		out []worker.Stats
	)
	done := make(chan struct{})
	consumerDone := make(chan struct{})

	go func() {
		defer close(consumerDone)
		for {
			select {
			case <-done:
				return
			default:
				mu.Lock()
				out = out[:0]
				mu.Unlock()
			}
		}
	}()

	var producerID atomic.Uint64
	b.SetParallelism(8)
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		st := worker.Stats{Rank: producerID.Add(1) - 1}
		for pb.Next() {
			mu.Lock()
			out = append(out, st)
			mu.Unlock()
		}
	})

	b.StopTimer()
	close(done)
	<-consumerDone
}
