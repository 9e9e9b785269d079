// Package worker runs one benchmark worker's share of the iteration space.
package worker

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
	"github.com/randomizedcoder/lock-benchmarks/internal/clock"
	"github.com/randomizedcoder/lock-benchmarks/internal/partition"
	"github.com/randomizedcoder/lock-benchmarks/internal/strategy"
)

var (
	// ErrMisconfigured is returned when a Config cannot run. The worker
	// performs no updates in that case.
	ErrMisconfigured = errors.New("worker: misconfigured")

	// ErrPanic wraps a panic raised while toggling.
	ErrPanic = errors.New("worker: panic")
)

// Config is the immutable per-worker parameter set.
type Config struct {
	N        uint64 // domain size, bits in the array
	M        uint64 // repeat count
	Strategy strategy.Strategy
	Start    uint64 // rank
	Step     uint64 // worker count

	// Pin binds the worker's OS thread to the CPU-th CPU of the
	// process's allowed set, where the platform supports it. Otherwise
	// placement is left to the scheduler.
	Pin bool
	CPU int
}

// Stats describes a finished worker.
type Stats struct {
	Rank       uint64
	Iterations uint64
	Elapsed    time.Duration
	Pinned     bool
}

// Stride returns the worker's share of [0, N*M).
func (c Config) Stride() (partition.Stride, error) {
	return partition.New(c.N, c.M, c.Step, c.Start)
}

// Validate checks the config against the array it will update.
func (c Config) Validate(bits *bitarray.BitArray) error {
	if c.Strategy == nil {
		return fmt.Errorf("%w: no strategy", ErrMisconfigured)
	}
	if bits == nil {
		return fmt.Errorf("%w: no bit array", ErrMisconfigured)
	}
	if bits.Len() < c.N {
		return fmt.Errorf("%w: array holds %d bits, domain is %d", ErrMisconfigured, bits.Len(), c.N)
	}
	if _, err := c.Stride(); err != nil {
		return fmt.Errorf("%w: %w", ErrMisconfigured, err)
	}
	return nil
}

// Run toggles Target(i, N) through the configured strategy for every index
// i of the worker's stride.
//
// Run validates first and returns without touching bits on any
// misconfiguration. It occupies its own OS thread for the duration.
func Run(bits *bitarray.BitArray, cfg Config) (st Stats, err error) {
	if err := cfg.Validate(bits); err != nil {
		return Stats{}, err
	}
	stride, _ := cfg.Stride()

	runtime.LockOSThread()
	pinned := false
	if cfg.Pin {
		pinned, err = pin(cfg.CPU)
		if err != nil {
			runtime.UnlockOSThread()
			return Stats{}, fmt.Errorf("%w: pin cpu %d: %w", ErrMisconfigured, cfg.CPU, err)
		}
	}
	// A thread whose affinity was changed is not handed back to the
	// scheduler; exiting while locked terminates it.
	if !pinned {
		defer runtime.UnlockOSThread()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: rank %d: %v", ErrPanic, cfg.Start, r)
		}
	}()

	sw := clock.NewStopwatch()
	loop(bits, cfg.Strategy, stride, cfg.N)

	return Stats{
		Rank:       cfg.Start,
		Iterations: stride.Count(),
		Elapsed:    sw.Elapsed(),
		Pinned:     pinned,
	}, nil
}

// loop is the hot path. The strategy was chosen before the worker started,
// so the body never branches on the lock type.
func loop(bits *bitarray.BitArray, s strategy.Strategy, stride partition.Stride, n uint64) {
	i := stride.Start
	for k := stride.Count(); k > 0; k-- {
		s.Toggle(bits, partition.Target(i, n))
		i += stride.Step
	}
}
