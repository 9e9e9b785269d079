package strategy

import (
	"sync"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
)

// MutexStrategy guards the toggle with a sync.Mutex.
//
// A contended Lock spins briefly and then parks the goroutine, so under
// heavy contention the cost is dominated by handoffs through the
// scheduler.
type MutexStrategy struct {
	mu sync.Mutex
}

// NewMutex creates an unlocked MutexStrategy.
func NewMutex() *MutexStrategy {
	return &MutexStrategy{}
}

// ID returns Mutex.
func (*MutexStrategy) ID() ID { return Mutex }

// Toggle flips bit x under the mutex.
func (s *MutexStrategy) Toggle(b *bitarray.BitArray, x uint64) {
	p := b.Word(x)
	m := bitarray.Mask(x)
	s.mu.Lock()
	*p ^= m
	s.mu.Unlock()
}

// Close fails if the mutex is still held.
func (s *MutexStrategy) Close() error {
	if !s.mu.TryLock() {
		return ErrHeld
	}
	s.mu.Unlock()
	return nil
}
