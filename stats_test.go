package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	s := newStats()
	changes := KindOf[changeEvent]()

	assert.Same(t, s.of(changes), s.of(changes))

	s.of(changes).posted.Add(2)
	s.of(changes).delivered.Add(1)
	assert.Equal(t, uint64(1), s.dropped(changes))
	assert.Equal(t, uint64(2), s.dropped(KindOf[otherEvent]()))

	assert.Equal(t, map[Kind]KindStats{
		changes:              {Posted: 2, Dropped: 1, Delivered: 1},
		KindOf[otherEvent](): {Dropped: 1},
	}, s.snapshot())
}

func TestStats_ConcurrentCounters(t *testing.T) {
	s := newStats()
	changes := KindOf[changeEvent]()

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.of(changes).dispatched.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(3200), s.snapshot()[changes].Dispatched)
}
