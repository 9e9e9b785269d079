package strategy

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
)

// SemaphoreStrategy guards the toggle with a counting semaphore of weight
// one, used as a binary lock.
//
// Acquire decrements and parks when the count is zero; Release increments
// and wakes the first waiter. The waiter list is FIFO, so this strategy
// is fair where Mutex is not, and pays for it in bookkeeping.
type SemaphoreStrategy struct {
	sem *semaphore.Weighted
	ctx context.Context
}

// NewSemaphore creates a SemaphoreStrategy with a count of one.
func NewSemaphore() *SemaphoreStrategy {
	return &SemaphoreStrategy{
		sem: semaphore.NewWeighted(1),
		ctx: context.Background(),
	}
}

// ID returns Semaphore.
func (*SemaphoreStrategy) ID() ID { return Semaphore }

// Toggle flips bit x while holding the semaphore.
func (s *SemaphoreStrategy) Toggle(b *bitarray.BitArray, x uint64) {
	p := b.Word(x)
	m := bitarray.Mask(x)
	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		// Background is never cancelled
		panic(fmt.Sprintf("strategy: semaphore acquire: %v", err))
	}
	*p ^= m
	s.sem.Release(1)
}

// Close fails if the semaphore is still held.
func (s *SemaphoreStrategy) Close() error {
	if !s.sem.TryAcquire(1) {
		return ErrHeld
	}
	s.sem.Release(1)
	return nil
}
