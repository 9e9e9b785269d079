package strategy

import "github.com/randomizedcoder/lock-benchmarks/internal/bitarray"

// NoneStrategy toggles with a plain read-modify-write and no
// synchronization.
//
// WARNING: only correct with a single worker. With more workers, updates
// are lost and the checksum comes out wrong some of the time; that is the
// baseline the other strategies are measured against.
type NoneStrategy struct{}

// NewNone creates a NoneStrategy.
func NewNone() *NoneStrategy {
	return &NoneStrategy{}
}

// ID returns None.
func (*NoneStrategy) ID() ID { return None }

// Toggle flips bit x without synchronization.
func (*NoneStrategy) Toggle(b *bitarray.BitArray, x uint64) {
	b.Toggle(x)
}

// Close is a no-op (no lock object).
func (*NoneStrategy) Close() error { return nil }
