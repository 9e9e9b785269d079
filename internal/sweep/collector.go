package sweep

import (
	"fmt"
	"sync/atomic"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/randomizedcoder/lock-benchmarks/internal/worker"
)

const maxShards = 8

// collector gathers per-worker stats as workers finish.
//
// Workers publish from their own goroutines while the run is still in
// progress, so publishing must not contend on anything the strategy under
// test could be waiting on. Each rank writes to its own shard of a
// lock-free MPSC ring; the sweep drains it after the run joins.
type collector struct {
	r       *ring.ShardedRing
	dropped atomic.Int64
}

// newCollector sizes the ring so that every worker's single write fits
// without a reader running concurrently, however ranks map onto shards.
func newCollector(workers uint64) (*collector, error) {
	shards := nextPow2(min(workers, maxShards))
	perShard := nextPow2(workers + 1)
	r, err := ring.NewShardedRing(shards*perShard, shards)
	if err != nil {
		return nil, fmt.Errorf("sweep: collector ring: %w", err)
	}
	return &collector{r: r}, nil
}

// publish records one worker's stats. Called from the worker goroutine.
func (c *collector) publish(st worker.Stats) {
	if !c.r.Write(st.Rank, st) {
		// Sized to never fill; a drop shows up as a sample count mismatch
		c.dropped.Add(1)
	}
}

// drain returns everything published so far.
func (c *collector) drain() []worker.Stats {
	var out []worker.Stats
	for {
		v, ok := c.r.TryRead()
		if !ok {
			return out
		}
		if st, ok := v.(worker.Stats); ok {
			out = append(out, st)
		}
	}
}

func nextPow2(v uint64) uint64 {
	n := uint64(1)
	for n < v {
		n <<= 1
	}
	return n
}
