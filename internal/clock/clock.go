// Package clock provides a low-overhead monotonic stopwatch for timing
// benchmark runs.
//
// It reads the runtime's monotonic clock directly, which is cheaper than
// time.Now() because it returns a single int64 and does not build a
// time.Time. Timestamps are only meaningful relative to each other.
package clock

import (
	"sync/atomic"
	"time"
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the current monotonic time in nanoseconds.
//
// Note: This uses go:linkname to access an internal runtime function.
// It may break in future Go versions, though it has been stable.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Now returns the current monotonic time in nanoseconds.
func Now() int64 {
	return nanotime()
}

// Stopwatch measures elapsed monotonic time.
//
// Start and Lap may be called from one goroutine while Elapsed is read from
// another.
type Stopwatch struct {
	start atomic.Int64
}

// NewStopwatch creates a Stopwatch that is already running.
func NewStopwatch() *Stopwatch {
	s := &Stopwatch{}
	s.Start()
	return s
}

// Start restarts the stopwatch from now.
func (s *Stopwatch) Start() {
	s.start.Store(nanotime())
}

// Elapsed returns the time since the last Start or Lap.
func (s *Stopwatch) Elapsed() time.Duration {
	return time.Duration(nanotime() - s.start.Load())
}

// Lap returns the time since the last Start or Lap and restarts the
// stopwatch.
func (s *Stopwatch) Lap() time.Duration {
	now := nanotime()
	last := s.start.Swap(now)
	return time.Duration(now - last)
}
