// Package combined provides end-to-end benchmarks that drive full harness
// runs: partitioning, strategy, worker threads and checksum together.
//
// These benchmarks are more representative than the per-toggle
// micro-benchmarks in package strategy, as they capture thread start-up,
// the non-critical section between toggles, and the contention window it
// leaves for each lock.
package combined
