//go:build !race

// Package racecheck reports whether the race detector is compiled in.
//
// The unsynchronized strategy races by construction; callers use Enabled
// to warn about, or skip, runs the detector would abort.
package racecheck

// Enabled is true when the binary is built with -race.
const Enabled = false
