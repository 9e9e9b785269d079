// Package harness drives a single benchmark run.
//
// A run allocates the shared bit array, constructs one synchronization
// strategy, spawns one worker per configured rank, waits for all of them,
// and reduces the array to a checksum:
//
//	Configuring -> Running -> Joining -> Reporting -> Done
//
// Any worker failure fails the whole run. There are no retries and no
// partial results: with some updates missing the checksum means nothing.
package harness

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/lock-benchmarks/internal/bitarray"
	"github.com/randomizedcoder/lock-benchmarks/internal/clock"
	"github.com/randomizedcoder/lock-benchmarks/internal/partition"
	"github.com/randomizedcoder/lock-benchmarks/internal/racecheck"
	"github.com/randomizedcoder/lock-benchmarks/internal/strategy"
	"github.com/randomizedcoder/lock-benchmarks/internal/verify"
	"github.com/randomizedcoder/lock-benchmarks/internal/worker"
)

// ErrConfig is returned for parameters that fail validation.
var ErrConfig = errors.New("harness: invalid configuration")

// Config describes one run.
type Config struct {
	Workers  uint64      // worker count T
	Size     uint64      // domain size N
	Repeat   uint64      // repeat count M
	Strategy strategy.ID // lock type

	// Pin binds worker r to the (r mod NumCPU)-th allowed CPU.
	Pin bool

	// GOOS overrides the platform for the strategy capability query.
	// Empty means runtime.GOOS.
	GOOS string

	// Verify computes the expected checksum and the number of wrong bits.
	Verify bool

	// OnWorkerDone, if set, is called from each worker's goroutine as
	// soon as that worker finishes, while others may still be running.
	OnWorkerDone func(worker.Stats)
}

// DefaultConfig returns the command-line defaults.
func DefaultConfig() Config {
	return Config{
		Workers:  1,
		Size:     1_000_000,
		Repeat:   100,
		Strategy: strategy.Default,
		Verify:   true,
	}
}

// Validate rejects non-positive sizes and counts and unknown lock types.
//
// Availability of the lock type is not checked here; that is the
// strategy's capability query and it reports ErrUnavailable.
func (c Config) Validate() error {
	switch {
	case c.Workers == 0:
		return fmt.Errorf("%w: worker count must be positive", ErrConfig)
	case c.Size == 0:
		return fmt.Errorf("%w: size must be positive", ErrConfig)
	case c.Repeat == 0:
		return fmt.Errorf("%w: repeat count must be positive", ErrConfig)
	case !c.Strategy.Valid():
		return fmt.Errorf("%w: lock type %d not in 0-5", ErrConfig, int(c.Strategy))
	}
	if _, err := partition.New(c.Size, c.Repeat, c.Workers, 0); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}

// Result is the outcome of a completed run.
type Result struct {
	Checksum uint64
	Elapsed  time.Duration // Running through Joining
	Workers  []worker.Stats

	// Set when Config.Verify is true.
	Verified bool
	Expected uint64
	Wrong    uint // bits that differ from a correct run
}

// Match reports whether a verified run produced the correct array.
func (r Result) Match() bool {
	return r.Verified && r.Wrong == 0 && r.Checksum == r.Expected
}

// Run executes one benchmark run.
func Run(cfg Config, log *zap.Logger) (Result, error) {
	m := &machine{state: Configuring, log: log}
	defer m.finish()

	// Configuring
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	goos := cfg.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	s, err := strategy.New(cfg.Strategy, strategy.WithGOOS(goos))
	if err != nil {
		return Result{}, err
	}
	bits, err := bitarray.New(cfg.Size)
	if err != nil {
		return Result{}, errors.Join(err, s.Close())
	}
	if cfg.Strategy == strategy.None && cfg.Workers > 1 {
		log.Warn("unsynchronized strategy with multiple workers, updates will be lost",
			zap.Uint64("workers", cfg.Workers), zap.Bool("race_detector", racecheck.Enabled))
	}
	log.Debug("configured",
		zap.Stringer("strategy", cfg.Strategy),
		zap.Uint64("workers", cfg.Workers),
		zap.Uint64("size", cfg.Size),
		zap.Uint64("repeat", cfg.Repeat),
		zap.Int("words", len(bits.Words())))

	// Running
	m.advance(Running)
	sw := clock.NewStopwatch()
	ncpu := worker.NumCPU()
	stats := make([]worker.Stats, cfg.Workers)
	var g errgroup.Group
	for r := uint64(0); r < cfg.Workers; r++ {
		wc := worker.Config{
			N:        cfg.Size,
			M:        cfg.Repeat,
			Strategy: s,
			Start:    r,
			Step:     cfg.Workers,
			Pin:      cfg.Pin,
			CPU:      int(r % uint64(ncpu)),
		}
		g.Go(func() error {
			st, err := worker.Run(bits, wc)
			if err != nil {
				return err
			}
			stats[r] = st
			if cfg.OnWorkerDone != nil {
				cfg.OnWorkerDone(st)
			}
			return nil
		})
	}

	// Joining
	m.advance(Joining)
	if err := g.Wait(); err != nil {
		log.Error("worker failed, aborting run", zap.Error(err))
		return Result{}, errors.Join(err, s.Close())
	}
	elapsed := sw.Elapsed()

	// Reporting
	m.advance(Reporting)
	res := Result{
		Checksum: bits.Checksum(),
		Elapsed:  elapsed,
		Workers:  stats,
	}
	if cfg.Verify {
		res.Verified = true
		res.Expected = verify.Expected(cfg.Size, cfg.Repeat)
		res.Wrong = verify.Mismatched(bits, cfg.Repeat)
	}
	log.Debug("reported",
		zap.String("checksum", fmt.Sprintf("%x", res.Checksum)),
		zap.Duration("elapsed", res.Elapsed))

	// Done
	m.advance(Done)
	if err := s.Close(); err != nil {
		return Result{}, err
	}
	return res, nil
}
