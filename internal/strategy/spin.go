package strategy

import (
	"sync/atomic"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
)

// SpinLockStrategy guards the toggle with a busy-wait lock on a single
// atomic flag.
//
// Acquire spins on CompareAndSwap(false, true) until it wins, release
// stores false. There is no queueing, so a worker can starve under heavy
// contention, but the goroutine never parks and never yields to the
// scheduler while waiting.
type SpinLockStrategy struct {
	locked atomic.Bool
}

// NewSpinLock creates a SpinLockStrategy with the flag clear.
func NewSpinLock() *SpinLockStrategy {
	return &SpinLockStrategy{}
}

// ID returns SpinLock.
func (*SpinLockStrategy) ID() ID { return SpinLock }

// Lock spins until the flag is acquired.
func (s *SpinLockStrategy) Lock() {
	for !s.locked.CompareAndSwap(false, true) {
	}
}

// Unlock releases the flag.
func (s *SpinLockStrategy) Unlock() {
	s.locked.Store(false)
}

// Toggle flips bit x under the spin lock.
func (s *SpinLockStrategy) Toggle(b *bitarray.BitArray, x uint64) {
	p := b.Word(x)
	m := bitarray.Mask(x)
	s.Lock()
	*p ^= m
	s.Unlock()
}

// Close fails if the flag is still set.
func (s *SpinLockStrategy) Close() error {
	if s.locked.Load() {
		return ErrHeld
	}
	return nil
}
