package strategy

import (
	"sync/atomic"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
)

// AtomicStrategy toggles with a compare-and-swap loop on the containing
// word.
//
// sync/atomic has And and Or but no Xor, so the fetch-and-xor is spelled
// as load, xor, CompareAndSwap, retried until no other worker changed the
// word in between. No lock object is involved.
type AtomicStrategy struct{}

// NewAtomic creates an AtomicStrategy.
func NewAtomic() *AtomicStrategy {
	return &AtomicStrategy{}
}

// ID returns Atomic.
func (*AtomicStrategy) ID() ID { return Atomic }

// Toggle atomically flips bit x.
func (*AtomicStrategy) Toggle(b *bitarray.BitArray, x uint64) {
	p := b.Word(x)
	m := bitarray.Mask(x)
	for {
		old := atomic.LoadUint64(p)
		if atomic.CompareAndSwapUint64(p, old, old^m) {
			return
		}
	}
}

// Close is a no-op (no lock object).
func (*AtomicStrategy) Close() error { return nil }
