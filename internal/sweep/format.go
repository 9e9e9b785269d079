package sweep

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

const rule = "──────────────────────────────────────────────────────────────────────────────────"

// Format writes rows as a table.
func Format(w io.Writer, p Plan, rows []Row) error {
	ew := &errWriter{w: w}

	ew.printf("Lock sweep (n=%s, m=%d, %d runs per cell, %s toggles per run)\n",
		humanize.Comma(int64(p.Size)), p.Repeat, p.Runs, humanize.Comma(int64(p.Size*p.Repeat)))
	ew.printf("%s\n", rule)
	ew.printf("  %-10s %3s  %10s %9s %10s %10s %8s  %14s %5s  %s\n",
		"strategy", "T", "wall", "±", "cpu", "sys", "skew", "throughput", "ok", "")
	ew.printf("%s\n", rule)

	for _, r := range rows {
		if r.Err != nil {
			ew.printf("  %-10s %3d  %s\n", r.Strategy, r.Workers, r.Err)
			continue
		}
		note := ""
		if r.Racy {
			note = "(unsynchronized)"
		} else if r.Correct != r.Runs {
			note = "LOST UPDATES"
		}
		ew.printf("  %-10s %3d  %10s %9s %10s %10s %7.2fx  %14s %2d/%-2d  %s\n",
			r.Strategy, r.Workers,
			round(r.WallMean), round(r.WallStdDev), round(r.CPUMean), round(r.SysMean),
			r.Skew, humanize.SIWithDigits(r.Throughput, 2, "op/s"),
			r.Correct, r.Runs, note)
	}
	return ew.err
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	}
	return d.Round(time.Microsecond)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
