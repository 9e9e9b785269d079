// Package partition divides the global iteration space among workers.
//
// The space [0, N*M) is split by strided interleaving: worker r of T visits
// r, r+T, r+2T, ... Every index belongs to exactly one worker, independent
// of scheduling, so no coordination is needed to hand out work.
package partition

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
)

// ErrInvalid is returned for parameters that cannot describe a partition.
var ErrInvalid = errors.New("partition: invalid parameters")

// Stride is the slice of the iteration space owned by one worker.
type Stride struct {
	Start uint64 // worker rank
	Step  uint64 // worker count
	End   uint64 // N*M, exclusive
}

// New returns the stride of worker rank out of workers.
func New(n, m, workers, rank uint64) (Stride, error) {
	if n == 0 || m == 0 || workers == 0 {
		return Stride{}, fmt.Errorf("%w: n=%d m=%d workers=%d", ErrInvalid, n, m, workers)
	}
	if rank >= workers {
		return Stride{}, fmt.Errorf("%w: rank %d >= workers %d", ErrInvalid, rank, workers)
	}
	hi, end := bits.Mul64(n, m)
	if hi != 0 {
		return Stride{}, fmt.Errorf("%w: n*m overflows (n=%d m=%d)", ErrInvalid, n, m)
	}
	return Stride{Start: rank, Step: workers, End: end}, nil
}

// Split returns the strides of every rank, in rank order.
func Split(n, m, workers uint64) ([]Stride, error) {
	if workers == 0 {
		return nil, fmt.Errorf("%w: workers=0", ErrInvalid)
	}
	out := make([]Stride, 0, workers)
	for r := uint64(0); r < workers; r++ {
		s, err := New(n, m, workers, r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Count returns the number of indices in the stride.
func (s Stride) Count() uint64 {
	if s.Start >= s.End {
		return 0
	}
	return (s.End-s.Start-1)/s.Step + 1
}

// All yields the stride's indices in increasing order.
func (s Stride) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		// Counting iterations instead of comparing i < End keeps i+Step
		// from wrapping when End is close to MaxUint64.
		i := s.Start
		for k := s.Count(); k > 0; k-- {
			if !yield(i) {
				return
			}
			i += s.Step
		}
	}
}

// Target maps a global iteration index to a bit index: (i^3) mod n.
//
// The cube is deliberately slow relative to the toggle so that each
// iteration has a non-trivial section outside the lock. Products are formed
// in 128 bits, so the result is the exact modular cube with no wraparound.
// Because of that, Target(i, n) depends only on i mod n.
func Target(i, n uint64) uint64 {
	r := i % n
	hi, lo := bits.Mul64(r, r)
	sq := bits.Rem64(hi, lo, n)
	hi, lo = bits.Mul64(sq, r)
	return bits.Rem64(hi, lo, n)
}
