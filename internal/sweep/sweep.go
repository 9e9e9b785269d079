// Package sweep compares strategies across worker counts.
//
// Each (strategy, workers) cell is run several times through the harness.
// The table reports wall time, CPU time and throughput per cell, plus how
// many runs produced a correct array, so the price of each lock and the
// lost updates of the unsynchronized baseline show side by side.
package sweep

import (
	"errors"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/randomizedcoder/lock-benchmarks/internal/clock"
	"github.com/randomizedcoder/lock-benchmarks/internal/harness"
	"github.com/randomizedcoder/lock-benchmarks/internal/racecheck"
	"github.com/randomizedcoder/lock-benchmarks/internal/strategy"
	"github.com/randomizedcoder/lock-benchmarks/internal/worker"
)

// ErrPlan is returned for a plan that cannot be run.
var ErrPlan = errors.New("sweep: invalid plan")

// Plan lists the cells to run.
type Plan struct {
	Size       uint64
	Repeat     uint64
	Workers    []uint64
	Strategies []strategy.ID
	Runs       int
	Pin        bool

	// GOOS overrides the platform for the capability query.
	GOOS string
}

// DefaultPlan runs every strategy at 1, 2 and 4 workers, three times each.
func DefaultPlan() Plan {
	return Plan{
		Size:       1_000_000,
		Repeat:     10,
		Workers:    []uint64{1, 2, 4},
		Strategies: strategy.IDs(),
		Runs:       3,
	}
}

// Validate checks the plan shape. Per-cell parameters are validated by the
// harness.
func (p Plan) Validate() error {
	switch {
	case len(p.Workers) == 0:
		return fmt.Errorf("%w: no worker counts", ErrPlan)
	case len(p.Strategies) == 0:
		return fmt.Errorf("%w: no strategies", ErrPlan)
	case p.Runs <= 0:
		return fmt.Errorf("%w: runs must be positive", ErrPlan)
	}
	return nil
}

// Row summarizes the runs of one cell.
type Row struct {
	Strategy strategy.ID
	Workers  uint64
	Runs     int

	// Err is set when the cell could not run, e.g. ErrUnavailable.
	Err error

	// Racy marks the unsynchronized strategy with more than one worker,
	// whose wrong results are expected.
	Racy bool

	Correct int

	WallMean   time.Duration
	WallStdDev time.Duration
	WallMedian time.Duration
	CPUMean    time.Duration // user + sys
	SysMean    time.Duration

	// Skew is the mean ratio of slowest to fastest worker within a run.
	Skew float64

	// Throughput is toggles per second at the mean wall time.
	Throughput float64
}

type sample struct {
	wall, user, sys time.Duration
	correct         bool
	skew            float64
}

// Run executes the plan.
func Run(p Plan, log *zap.Logger) ([]Row, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var rows []Row
	for _, id := range p.Strategies {
		for _, workers := range p.Workers {
			row, err := runCell(p, id, workers, log)
			if err != nil {
				return rows, err
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func runCell(p Plan, id strategy.ID, workers uint64, log *zap.Logger) (Row, error) {
	row := Row{
		Strategy: id,
		Workers:  workers,
		Runs:     p.Runs,
		Racy:     id == strategy.None && workers > 1,
	}
	log = log.With(zap.Stringer("strategy", id), zap.Uint64("workers", workers))

	if row.Racy && racecheck.Enabled {
		row.Err = errors.New("skipped under the race detector")
		log.Warn("skipping unsynchronized cell")
		return row, nil
	}

	samples := make([]sample, 0, p.Runs)
	for run := 0; run < p.Runs; run++ {
		s, err := runOnce(p, id, workers, log)
		if errors.Is(err, strategy.ErrUnavailable) {
			log.Warn("strategy unavailable", zap.Error(err))
			row.Err = err
			return row, nil
		}
		if err != nil {
			return row, fmt.Errorf("sweep: %s with %d workers: %w", id, workers, err)
		}
		log.Debug("run", zap.Int("run", run), zap.Duration("wall", s.wall), zap.Bool("correct", s.correct))
		samples = append(samples, s)
	}

	if err := summarize(&row, samples, p.Size*p.Repeat); err != nil {
		return row, err
	}
	return row, nil
}

func runOnce(p Plan, id strategy.ID, workers uint64, log *zap.Logger) (sample, error) {
	col, err := newCollector(workers)
	if err != nil {
		return sample{}, err
	}

	cfg := harness.Config{
		Workers:      workers,
		Size:         p.Size,
		Repeat:       p.Repeat,
		Strategy:     id,
		Pin:          p.Pin,
		GOOS:         p.GOOS,
		Verify:       true,
		OnWorkerDone: col.publish,
	}

	u0, s0 := cpuTime()
	sw := clock.NewStopwatch()
	res, err := harness.Run(cfg, log)
	wall := sw.Elapsed()
	u1, s1 := cpuTime()
	if err != nil {
		return sample{}, err
	}

	ws := col.drain()
	if uint64(len(ws)) != workers {
		return sample{}, fmt.Errorf("sweep: collected %d of %d worker samples (%d dropped)",
			len(ws), workers, col.dropped.Load())
	}

	return sample{
		wall:    wall,
		user:    u1 - u0,
		sys:     s1 - s0,
		correct: res.Match(),
		skew:    skew(ws),
	}, nil
}

// skew is the slowest worker's time over the fastest's, ignoring idle
// workers. One busy worker, or none, gives 1.
func skew(ws []worker.Stats) float64 {
	var el []float64
	for _, w := range ws {
		if w.Iterations > 0 {
			el = append(el, float64(w.Elapsed))
		}
	}
	if len(el) < 2 {
		return 1
	}
	lo, _ := stats.Min(el)
	hi, _ := stats.Max(el)
	if lo <= 0 {
		return 1
	}
	return hi / lo
}

func summarize(row *Row, samples []sample, toggles uint64) error {
	wall := make([]float64, len(samples))
	cpu := make([]float64, len(samples))
	sys := make([]float64, len(samples))
	sk := make([]float64, len(samples))
	for i, s := range samples {
		wall[i] = float64(s.wall)
		cpu[i] = float64(s.user + s.sys)
		sys[i] = float64(s.sys)
		sk[i] = s.skew
		if s.correct {
			row.Correct++
		}
	}

	mean, err := stats.Mean(wall)
	if err != nil {
		return fmt.Errorf("sweep: wall mean: %w", err)
	}
	// Sample deviation needs two points; one run reports zero spread
	var sd float64
	if len(wall) > 1 {
		if sd, err = stats.StandardDeviationSample(wall); err != nil {
			return fmt.Errorf("sweep: wall stddev: %w", err)
		}
	}
	med, err := stats.Median(wall)
	if err != nil {
		return fmt.Errorf("sweep: wall median: %w", err)
	}
	cpuMean, err := stats.Mean(cpu)
	if err != nil {
		return fmt.Errorf("sweep: cpu mean: %w", err)
	}
	sysMean, err := stats.Mean(sys)
	if err != nil {
		return fmt.Errorf("sweep: sys mean: %w", err)
	}
	skMean, err := stats.Mean(sk)
	if err != nil {
		return fmt.Errorf("sweep: skew mean: %w", err)
	}

	row.WallMean = time.Duration(mean)
	row.WallStdDev = time.Duration(sd)
	row.WallMedian = time.Duration(med)
	row.CPUMean = time.Duration(cpuMean)
	row.SysMean = time.Duration(sysMean)
	row.Skew = skMean
	if mean > 0 {
		row.Throughput = float64(toggles) / (mean / float64(time.Second))
	}
	return nil
}
