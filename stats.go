package eventbus

import (
	"sync/atomic"

	"github.com/alphadose/haxmap"
)

// KindStats is a point-in-time snapshot of the counters kept for one kind.
type KindStats struct {
	// Posted counts events accepted into the queue.
	Posted uint64
	// Dropped counts events rejected by Post because the queue was full or the
	// bus was closed.
	Dropped uint64
	// Unrouted counts dequeued events that had no subscriber.
	Unrouted uint64
	// Dispatched counts delivery units scheduled.
	Dispatched uint64
	// Delivered counts handler invocations that returned normally.
	Delivered uint64
	// Panicked counts handler invocations that panicked.
	Panicked uint64
}

type kindCounters struct {
	posted     atomic.Uint64
	dropped    atomic.Uint64
	unrouted   atomic.Uint64
	dispatched atomic.Uint64
	delivered  atomic.Uint64
	panicked   atomic.Uint64
}

func (c *kindCounters) snapshot() KindStats {
	return KindStats{
		Posted:     c.posted.Load(),
		Dropped:    c.dropped.Load(),
		Unrouted:   c.unrouted.Load(),
		Dispatched: c.dispatched.Load(),
		Delivered:  c.delivered.Load(),
		Panicked:   c.panicked.Load(),
	}
}

// stats is written from Post, the dispatcher and every delivery unit, so it
// stays off the registry lock.
type stats struct {
	kinds        *haxmap.Map[Kind, *kindCounters]
	totalDropped atomic.Uint64
}

func newStats() *stats {
	return &stats{
		kinds: haxmap.New[Kind, *kindCounters](),
	}
}

func (s *stats) of(kind Kind) *kindCounters {
	c, _ := s.kinds.GetOrCompute(kind, func() *kindCounters {
		return &kindCounters{}
	})
	return c
}

// dropped records a dropped event and returns the bus-wide drop count.
func (s *stats) dropped(kind Kind) uint64 {
	s.of(kind).dropped.Add(1)
	return s.totalDropped.Add(1)
}

func (s *stats) each(fn func(Kind, KindStats)) {
	s.kinds.ForEach(func(kind Kind, c *kindCounters) bool {
		fn(kind, c.snapshot())
		return true
	})
}

func (s *stats) snapshot() map[Kind]KindStats {
	result := make(map[Kind]KindStats, int(s.kinds.Len()))
	s.each(func(kind Kind, ks KindStats) {
		result[kind] = ks
	})
	return result
}
