package eventbus

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/casualjim/eventbus/pkg/slogx"
	"github.com/fogfish/opts"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// dropWarnInterval limits drop warnings to the first drop and every
// dropWarnInterval-th one after it.
const dropWarnInterval = 100

// Bus routes posted events to the subscribers registered for their kind.
//
// Post enqueues into a bounded queue drained by a single dispatcher goroutine.
// For every event the dispatcher snapshots the subscribers of its kind and
// starts one goroutine per subscriber, so a slow or panicking handler never
// holds up the dispatcher or the other subscribers.
//
// A Bus is safe for concurrent use. Its methods never return errors: anything
// that goes wrong is logged and reflected in Stats.
type Bus struct {
	id         string
	name       string
	capacity   int
	logger     *slog.Logger
	registerer prometheus.Registerer

	registry   *registry
	stats      *stats
	collector  *collector
	registered bool

	queue     chan Event
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a bus and starts its dispatcher. It panics when an option is
// invalid.
func New(options ...Option) *Bus {
	b := &Bus{
		id:       uuid.Must(uuid.NewV7()).String(),
		name:     DefaultName,
		capacity: DefaultQueueCapacity,
		logger:   slog.Default(),
		registry: newRegistry(),
		stats:    newStats(),
		done:     make(chan struct{}),
	}
	if err := opts.Apply(b, options); err != nil {
		panic(err)
	}

	b.logger = b.logger.With(
		slogx.LoggerName("eventbus"),
		slog.String("bus", b.name),
		slog.String("bus_id", b.id),
	)
	b.queue = make(chan Event, b.capacity)
	b.collector = newCollector(b.name, b.stats)
	b.ctx, b.cancel = context.WithCancel(context.Background())

	if b.registerer != nil {
		if err := b.registerer.Register(b.collector); err != nil {
			b.logger.Error("failed to register metrics collector", slogx.Error(err))
		} else {
			b.registered = true
		}
	}

	go b.dispatch()
	return b
}

// ID returns the unique identifier of this bus instance.
func (b *Bus) ID() string {
	return b.id
}

// Name returns the configured name of the bus.
func (b *Bus) Name() string {
	return b.name
}

// Post hands ev to the dispatcher without blocking. The event reaches the
// subscribers registered for its kind when it is dispatched, not when it is
// posted. When the queue is full or the bus is closed the event is dropped.
func (b *Bus) Post(ev Event) {
	if ev == nil {
		b.logger.Debug("ignoring nil event")
		return
	}
	kind := ev.Kind()

	if b.ctx.Err() != nil {
		b.drop(kind, "bus closed")
		return
	}

	select {
	case b.queue <- ev:
		b.stats.of(kind).posted.Add(1)
	default:
		b.drop(kind, "queue full")
	}
}

func (b *Bus) drop(kind Kind, reason string) {
	total := b.stats.dropped(kind)
	if total%dropWarnInterval == 1 {
		b.logger.Warn("dropped event",
			slogx.Kind(kind),
			slog.String("reason", reason),
			slog.Uint64("dropped", total),
			slog.Int("capacity", b.capacity),
		)
	}
}

// Register adds sub to the subscribers of sub.Kind(). Registering the same
// subscriber twice makes it receive every matching event twice.
func (b *Bus) Register(sub Subscriber) {
	if err := checkSubscriber(sub); err != nil {
		b.logger.Error("register failed", slogx.Error(err), slogx.Subscriber(sub))
		return
	}
	b.registry.register(sub)
	b.logger.Debug("registered subscriber", slogx.Kind(sub.Kind()), slogx.Subscriber(sub))
}

// Unregister removes one registration of sub. It is a no-op when sub is not
// registered.
func (b *Bus) Unregister(sub Subscriber) {
	if err := checkSubscriber(sub); err != nil {
		b.logger.Error("unregister failed", slogx.Error(err), slogx.Subscriber(sub))
		return
	}
	if b.registry.unregister(sub) {
		b.logger.Debug("unregistered subscriber", slogx.Kind(sub.Kind()), slogx.Subscriber(sub))
	}
}

// Kinds returns the kinds that currently have subscribers, in the order they
// were first registered.
func (b *Bus) Kinds() []Kind {
	return b.registry.list()
}

// Subscribers returns the number of registrations for kind.
func (b *Bus) Subscribers(kind Kind) int {
	return b.registry.count(kind)
}

// Stats returns a snapshot of the counters of every kind seen by the bus.
func (b *Bus) Stats() map[Kind]KindStats {
	return b.stats.snapshot()
}

// Collector returns a prometheus collector exporting the counters of Stats.
func (b *Bus) Collector() prometheus.Collector {
	return b.collector
}

// Close stops the dispatcher and waits for it to exit. Events still queued are
// discarded, later posts are dropped, and delivery units already started run
// to completion. Close is idempotent.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		b.cancel()
		<-b.done
		// A collision leaves another bus's collector under the same id.
		if b.registered {
			b.registerer.Unregister(b.collector)
		}
	})
	return nil
}

func (b *Bus) dispatch() {
	defer close(b.done)
	for {
		select {
		case <-b.ctx.Done():
			return
		case ev := <-b.queue:
			b.fanOut(ev)
		}
	}
}

func (b *Bus) fanOut(ev Event) {
	kind := ev.Kind()
	counters := b.stats.of(kind)

	subs := b.registry.lookup(kind)
	if len(subs) == 0 {
		counters.unrouted.Add(1)
		return
	}
	for _, sub := range subs {
		counters.dispatched.Add(1)
		go b.deliver(counters, sub, ev)
	}
}

func (b *Bus) deliver(counters *kindCounters, sub Subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			counters.panicked.Add(1)
			b.logger.Error("subscriber panicked",
				slogx.Kind(ev.Kind()),
				slogx.Subscriber(sub),
				slogx.Recovered(r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	sub.OnEvent(b.ctx, ev)
	counters.delivered.Add(1)
}
