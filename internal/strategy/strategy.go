// Package strategy provides the synchronization strategies compared by the
// benchmark.
//
// This package offers six implementations of the Strategy interface:
//   - None: plain read-modify-write, correct only with a single worker
//   - Atomic: compare-and-swap loop on the containing word
//   - SpinLock: busy-wait lock on an atomic.Bool
//   - OSSpinLock: spin lock using the platform's native pause instruction
//   - Mutex: sync.Mutex
//   - Semaphore: golang.org/x/sync/semaphore weighted 1
//
// Every locking strategy holds its lock across exactly the read word,
// xor, write word span. The lock object belongs to the Strategy value, so a
// run constructs one Strategy and shares it by pointer with all workers.
package strategy

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
)

var (
	// ErrUnknown is returned for an ID outside the closed set.
	ErrUnknown = errors.New("strategy: unknown lock type")

	// ErrUnavailable is returned when the platform lacks the primitive
	// a strategy needs. Callers must not substitute another strategy.
	ErrUnavailable = errors.New("strategy: unavailable on this platform")

	// ErrHeld is returned by Close when the lock is still held.
	ErrHeld = errors.New("strategy: lock still held at close")
)

// ID identifies a strategy. The numeric values are the lock type codes
// accepted on the command line.
type ID int

const (
	None ID = iota
	Atomic
	SpinLock
	OSSpinLock
	Mutex
	Semaphore

	numIDs = iota
)

// Default is the strategy used when none is selected.
const Default = Atomic

var names = [numIDs]string{
	None:       "none",
	Atomic:     "atomic",
	SpinLock:   "spin",
	OSSpinLock: "osspin",
	Mutex:      "mutex",
	Semaphore:  "semaphore",
}

// String returns the short name of the strategy.
func (id ID) String() string {
	if !id.Valid() {
		return "ID(" + strconv.Itoa(int(id)) + ")"
	}
	return names[id]
}

// Valid reports whether id is one of the defined strategies.
func (id ID) Valid() bool {
	return id >= 0 && id < numIDs
}

// IDs returns every strategy in code order.
func IDs() []ID {
	out := make([]ID, numIDs)
	for i := range out {
		out[i] = ID(i)
	}
	return out
}

// ParseID accepts either the numeric code or the short name.
func ParseID(s string) (ID, error) {
	if n, err := strconv.Atoi(s); err == nil {
		id := ID(n)
		if !id.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrUnknown, n)
		}
		return id, nil
	}
	for i, name := range names {
		if name == s {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Strategy toggles bits of a shared BitArray under one synchronization
// policy.
//
// Implementations other than None are safe for concurrent use by any number
// of goroutines.
type Strategy interface {
	// ID returns the strategy's identifier.
	ID() ID

	// Toggle flips bit x of b.
	Toggle(b *bitarray.BitArray, x uint64)

	// Close releases the strategy's lock object. It fails with ErrHeld
	// if a worker still holds the lock.
	Close() error
}

type options struct {
	goos string
}

// Option configures New.
type Option func(*options)

// WithGOOS overrides the platform used for the capability query.
func WithGOOS(goos string) Option {
	return func(o *options) {
		o.goos = goos
	}
}

// New constructs the strategy id together with its lock object.
//
// If the platform lacks the primitive, New returns ErrUnavailable and no
// strategy; it never falls back to a different one.
func New(id ID, opts ...Option) (Strategy, error) {
	o := options{goos: runtime.GOOS}
	for _, opt := range opts {
		opt(&o)
	}
	if err := Supported(id, o.goos); err != nil {
		return nil, err
	}

	switch id {
	case None:
		return NewNone(), nil
	case Atomic:
		return NewAtomic(), nil
	case SpinLock:
		return NewSpinLock(), nil
	case OSSpinLock:
		return NewOSSpinLock(), nil
	case Mutex:
		return NewMutex(), nil
	case Semaphore:
		return NewSemaphore(), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknown, int(id))
}

// Supported is the capability query: it reports whether strategy id can run
// on the platform goos.
func Supported(id ID, goos string) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknown, int(id))
	}
	if id == OSSpinLock {
		return osSpinSupported(goos)
	}
	return nil
}

// Capabilities returns the result of Supported for every strategy.
func Capabilities(goos string) map[ID]error {
	m := make(map[ID]error, numIDs)
	for _, id := range IDs() {
		m[id] = Supported(id, goos)
	}
	return m
}
