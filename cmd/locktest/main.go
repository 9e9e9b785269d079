// Command locktest toggles bits of a shared array from several workers
// through one synchronization strategy and prints the resulting checksum.
//
// Time it with the shell to compare strategies:
//
//	time go run ./cmd/locktest -t 4 -l 4
//
// Lock types: 0 none (single worker only), 1 atomic, 2 spin lock,
// 3 native spin lock, 4 mutex, 5 semaphore.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/randomizedcoder/lock-benchmarks/internal/harness"
	"github.com/randomizedcoder/lock-benchmarks/internal/logging"
	"github.com/randomizedcoder/lock-benchmarks/internal/strategy"
)

const (
	exitOK     = 0
	exitFail   = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	def := harness.DefaultConfig()

	fs := flag.NewFlagSet("locktest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	threads := fs.Uint64("t", def.Workers, "number of worker threads")
	size := fs.Uint64("n", def.Size, "domain size (bits in the array)")
	repeat := fs.Uint64("m", def.Repeat, "repeat count")
	lockType := fs.Int("l", int(def.Strategy), "lock type (0-5)")
	pin := fs.Bool("pin", false, "pin each worker to a CPU")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	log := logging.New(stderr, *verbose)
	defer func() { _ = log.Sync() }()

	fmt.Fprintf(stderr, "Usage: locktest [-t nThreads=%d] [-n size=%d] [-m repeat=%d] [-l lockType=%d]\n",
		*threads, *size, *repeat, *lockType)
	fmt.Fprintf(stderr, "Lock type: 0 for single-thread; 1 for atomic; 2 for spin lock; 3 for native spin lock; 4 for mutex; 5 for semaphore\n")

	cfg := def
	cfg.Workers = *threads
	cfg.Size = *size
	cfg.Repeat = *repeat
	cfg.Strategy = strategy.ID(*lockType)
	cfg.Pin = *pin

	res, err := harness.Run(cfg, log)
	switch {
	case errors.Is(err, harness.ErrConfig):
		log.Error("invalid configuration", zap.Error(err))
		return exitConfig
	case errors.Is(err, strategy.ErrUnavailable):
		log.Error("lock type not available", zap.Stringer("strategy", cfg.Strategy), zap.Error(err))
		return exitFail
	case err != nil:
		log.Error("run failed", zap.Error(err))
		return exitFail
	}

	fmt.Fprintf(stderr, "Hash: %x (should be %x: 0 if -m is even, a fixed pattern for -n if -m is odd)\n",
		res.Checksum, res.Expected)
	if !res.Match() {
		log.Warn("checksum mismatch, updates were lost",
			zap.Stringer("strategy", cfg.Strategy),
			zap.Uint64("workers", cfg.Workers),
			zap.Uint("wrong_bits", res.Wrong))
	}
	log.Debug("done", zap.Duration("elapsed", res.Elapsed))
	return exitOK
}
