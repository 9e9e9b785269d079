package strategy

import (
	"fmt"
	"sync/atomic"
	_ "unsafe" // Required for go:linkname

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
)

// procyield executes the platform's spin-wait hint (PAUSE on x86, YIELD on
// arm64) the given number of times. It is the primitive the runtime itself
// spins with, and never enters the scheduler.
//
// Note: This uses go:linkname to access an internal runtime function.
// It may break in future Go versions, though it has been stable.
//
//go:linkname procyield runtime.procyield
func procyield(cycles uint32)

// spinCycles matches the runtime's active spin count.
const spinCycles = 30

// osSpinSupported reports whether the native spin lock strategy is offered
// on goos. Darwin and iOS have no kernel-level spin lock to mirror, and the
// single-threaded ports cannot spin against another thread at all.
func osSpinSupported(goos string) error {
	switch goos {
	case "darwin", "ios", "js", "wasip1":
		return fmt.Errorf("%w: %s lock on %s", ErrUnavailable, OSSpinLock, goos)
	}
	return nil
}

// OSSpinLockStrategy guards the toggle with a test-and-test-and-set lock
// that delegates waiting to the platform's pause instruction.
//
// The critical section is identical to SpinLockStrategy; only the
// acquire protocol differs. Waiters poll with a plain load and back off
// with procyield between attempts, which keeps the cache line shared
// until the holder releases. The goroutine never parks.
type OSSpinLockStrategy struct {
	state atomic.Uint32
}

// NewOSSpinLock creates an unlocked OSSpinLockStrategy.
//
// Callers should go through New, which runs the capability query first.
func NewOSSpinLock() *OSSpinLockStrategy {
	return &OSSpinLockStrategy{}
}

// ID returns OSSpinLock.
func (*OSSpinLockStrategy) ID() ID { return OSSpinLock }

// Lock spins until the lock is acquired.
func (s *OSSpinLockStrategy) Lock() {
	for {
		if s.state.CompareAndSwap(0, 1) {
			return
		}
		for s.state.Load() != 0 {
			procyield(spinCycles)
		}
	}
}

// Unlock releases the lock.
func (s *OSSpinLockStrategy) Unlock() {
	s.state.Store(0)
}

// Toggle flips bit x under the lock.
func (s *OSSpinLockStrategy) Toggle(b *bitarray.BitArray, x uint64) {
	p := b.Word(x)
	m := bitarray.Mask(x)
	s.Lock()
	*p ^= m
	s.Unlock()
}

// Close fails if the lock is still held.
func (s *OSSpinLockStrategy) Close() error {
	if s.state.Load() != 0 {
		return ErrHeld
	}
	return nil
}
