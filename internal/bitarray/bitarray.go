// Package bitarray provides the shared bit vector that benchmark workers
// toggle.
//
// A BitArray is a flat slice of 64-bit words. Bit x lives in word x>>6 at
// offset x&63. The type itself performs no synchronization: callers that
// share a BitArray between goroutines must mediate access to the words,
// which is exactly what the strategies in package strategy do.
package bitarray

import (
	"errors"
	"fmt"
)

// WordBits is the number of bits per word.
const WordBits = 64

var (
	// ErrSize is returned for a zero-length array.
	ErrSize = errors.New("bitarray: size must be positive")

	// ErrAlloc is returned when the backing words cannot be allocated.
	ErrAlloc = errors.New("bitarray: allocation failed")
)

// BitArray is a fixed-size vector of n bits, all initially zero.
type BitArray struct {
	words []uint64
	n     uint64
}

// New allocates a zeroed BitArray holding n bits.
//
// An allocation the runtime refuses (for example a length that overflows
// the address space) is reported as ErrAlloc instead of crashing.
func New(n uint64) (b *BitArray, err error) {
	if n == 0 {
		return nil, ErrSize
	}
	nw := n / WordBits
	if n%WordBits != 0 {
		nw++
	}
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("%w: %d words: %v", ErrAlloc, nw, r)
		}
	}()
	return &BitArray{
		words: make([]uint64, nw),
		n:     n,
	}, nil
}

// Len returns the number of addressable bits.
func (b *BitArray) Len() uint64 {
	return b.n
}

// Words returns the backing words. The slice aliases the array.
func (b *BitArray) Words() []uint64 {
	return b.words
}

// Word returns a pointer to the word containing bit x.
func (b *BitArray) Word(x uint64) *uint64 {
	return &b.words[x>>6]
}

// Mask returns the single-bit mask selecting bit x within its word.
func Mask(x uint64) uint64 {
	return 1 << (x & (WordBits - 1))
}

// Toggle flips bit x with a plain read-modify-write.
//
// Not safe for concurrent use.
func (b *BitArray) Toggle(x uint64) {
	b.words[x>>6] ^= Mask(x)
}

// Bit reports whether bit x is set.
func (b *BitArray) Bit(x uint64) bool {
	return b.words[x>>6]&Mask(x) != 0
}

// Checksum XOR-reduces all words into a single value.
//
// Every bit that was toggled an even number of times cancels out, so a
// correct run with an even repeat count yields zero.
func (b *BitArray) Checksum() uint64 {
	var z uint64
	for _, w := range b.words {
		z ^= w
	}
	return z
}

// Reset clears every bit.
func (b *BitArray) Reset() {
	clear(b.words)
}
