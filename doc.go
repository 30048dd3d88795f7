/*
Package eventbus provides an in-process publish/subscribe bus keyed by event kind.

Producers post events without knowing who consumes them, and consumers register
interest in one kind of event without knowing who produces it. Delivery never
leaves the process.

# Basic Usage

Declare an event type whose Kind method uses a value receiver, then register a
subscriber for it and post events:

	type ConfigChanged struct {
		DataID  string
		Content string
	}

	func (ConfigChanged) Kind() eventbus.Kind { return "ConfigChanged" }

	sub := eventbus.On(func(ctx context.Context, ev ConfigChanged) {
		slog.Info("config changed", "data_id", ev.DataID)
	})
	eventbus.Register(sub)
	defer eventbus.Unregister(sub)

	eventbus.Post(ConfigChanged{DataID: "app.yaml", Content: "..."})

The package level functions use a process-wide bus that is built lazily on first
use. Components that want their own bus, or tests that need isolation, create one
with New and close it when done.

# Architecture

1. Type model (event.go)
  - Event and Subscriber are capability interfaces exposing a Kind
  - On adapts a typed handler so consumers never write type assertions

2. Registry (registry.go)
  - Kind to ordered subscriber list, guarded by a single RWMutex
  - Lookups hand out snapshots, the lock is never held during delivery

3. Dispatch (bus.go)
  - A bounded queue drained by one dispatcher goroutine, in post order
  - One goroutine per subscriber per event; handler panics are recovered

4. Observability (stats.go, metrics.go, logging.go)
  - Per-kind counters available through Stats and a prometheus Collector
  - A Logging subscriber that prints events as JSON

# Delivery Guarantees

Delivery is best effort. Post never blocks: when the queue is full the event is
dropped and counted. Events are dispatched in the order they were posted, but the
handlers for one event run concurrently and may complete in any order. An event
is delivered to the subscribers registered when the dispatcher picks it up, not
when it was posted, so a subscriber registered or removed while events are in
flight may see some of them.

Subscribers are compared with ==. Registering the same pointer twice delivers every
matching event to it twice, and each Unregister call removes a single
registration.
*/
package eventbus
