// Package verify computes what a correct run must produce, independently of
// the strategies under test.
//
// Target(j, n) depends only on j mod n, so over [0, N*M) every residue is
// visited exactly M times. Bit x therefore ends up set iff M is odd and x
// has an odd number of cube roots modulo N.
package verify

import (
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
	"github.com/randomizedcoder/lock-benchmarks/internal/partition"
)

// Parity returns the final state of a correct run: bit x is set iff the
// number of j in [0, n*m) with Target(j, n) == x is odd.
func Parity(n, m uint64) *bitset.BitSet {
	p := bitset.New(uint(n))
	if m%2 == 0 {
		return p
	}
	for r := uint64(0); r < n; r++ {
		p.Flip(uint(partition.Target(r, n)))
	}
	return p
}

// Expected returns the checksum of a correct run. It is zero whenever m is
// even.
func Expected(n, m uint64) uint64 {
	if m%2 == 0 {
		return 0
	}
	var z uint64
	for _, w := range Parity(n, m).Words() {
		z ^= w
	}
	return z
}

// Replay runs the whole iteration space sequentially on a fresh array and
// returns its checksum. It is the slow, obviously-correct baseline that
// Expected is checked against.
func Replay(n, m uint64) (uint64, error) {
	bits, err := bitarray.New(n)
	if err != nil {
		return 0, err
	}
	s, err := partition.New(n, m, 1, 0)
	if err != nil {
		return 0, err
	}
	for i := range s.All() {
		bits.Toggle(partition.Target(i, n))
	}
	return bits.Checksum(), nil
}

// Mismatched counts the bits of b that differ from the correct final state
// for repeat count m. Zero means no update was lost.
func Mismatched(b *bitarray.BitArray, m uint64) uint {
	got := bitset.From(slices.Clone(b.Words()))
	return got.SymmetricDifferenceCardinality(Parity(b.Len(), m))
}
