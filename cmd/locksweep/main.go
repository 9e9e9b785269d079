// Command locksweep compares every synchronization strategy across several
// worker counts.
//
// Usage:
//
//	go run ./cmd/locksweep -n 1000000 -m 10 -t 1,2,4 -l all -runs 3
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/randomizedcoder/lock-benchmarks/internal/logging"
	"github.com/randomizedcoder/lock-benchmarks/internal/strategy"
	"github.com/randomizedcoder/lock-benchmarks/internal/sweep"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	def := sweep.DefaultPlan()

	fs := flag.NewFlagSet("locksweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	size := fs.Uint64("n", def.Size, "domain size (bits in the array)")
	repeat := fs.Uint64("m", def.Repeat, "repeat count")
	threads := fs.String("t", joinUints(def.Workers), "comma-separated worker counts")
	locks := fs.String("l", "all", `comma-separated lock types (ids or names), or "all"`)
	runs := fs.Int("runs", def.Runs, "runs per cell")
	pin := fs.Bool("pin", false, "pin each worker to a CPU")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := logging.New(stderr, *verbose)
	defer func() { _ = log.Sync() }()

	plan := def
	plan.Size = *size
	plan.Repeat = *repeat
	plan.Runs = *runs
	plan.Pin = *pin

	var err error
	if plan.Workers, err = parseUints(*threads); err != nil {
		log.Error("invalid -t", zap.Error(err))
		return 2
	}
	if plan.Strategies, err = parseIDs(*locks); err != nil {
		log.Error("invalid -l", zap.Error(err))
		return 2
	}

	fmt.Fprintf(stderr, "Architecture: %s/%s, GOMAXPROCS=%d\n", runtime.GOOS, runtime.GOARCH, runtime.GOMAXPROCS(0))

	rows, err := sweep.Run(plan, log)
	if err != nil {
		log.Error("sweep failed", zap.Error(err))
		return 1
	}
	if err := sweep.Format(stdout, plan, rows); err != nil {
		log.Error("write results", zap.Error(err))
		return 1
	}
	fmt.Fprintf(stdout, "\nNote: cpu is user+sys for the whole process; sys time on the mutex and semaphore rows is parking.\n")
	return 0
}

func parseUints(s string) ([]uint64, error) {
	var out []uint64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, err
		}
		if v == 0 {
			return nil, fmt.Errorf("worker count must be positive")
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no worker counts in %q", s)
	}
	return out, nil
}

func joinUints(vs []uint64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, ",")
}

func parseIDs(s string) ([]strategy.ID, error) {
	if s == "all" {
		return strategy.IDs(), nil
	}
	var out []strategy.ID
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strategy.ParseID(f)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no lock types in %q", s)
	}
	return out, nil
}
