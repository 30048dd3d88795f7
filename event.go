package eventbus

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/casualjim/eventbus/pkg/slogx"
)

// Kind is the routing key of an event. A kind belongs to an event type, not to
// an event instance: every value of a given type reports the same kind.
type Kind string

func (k Kind) String() string {
	return string(k)
}

// Event is the interface every event posted on a Bus implements.
//
// Kind must be declared on a value receiver so the zero value of the type can
// report it (see KindOf). Events are shared read-only between all the
// subscribers they are delivered to, so they must not be mutated after Post.
type Event interface {
	Kind() Kind
}

// Subscriber receives the events of a single kind.
//
// Subscribers are identified by interface equality: registering the same
// pointer twice yields two registry entries, unregistering it removes one.
// OnEvent may be called concurrently from many goroutines.
type Subscriber interface {
	Kind() Kind
	OnEvent(ctx context.Context, ev Event)
}

// KindOf returns the kind of the event type T without needing an instance.
// For a pointer type such as *ConfigChanged the kind is read from a fresh
// ConfigChanged, since the value-receiver Kind cannot be called through nil.
func KindOf[T Event]() Kind {
	var zero T
	if t := reflect.TypeFor[T](); t.Kind() == reflect.Pointer {
		zero = reflect.New(t.Elem()).Interface().(T)
	}
	return zero.Kind()
}

// On adapts a typed handler into a Subscriber for the kind of T.
// Every call returns a new subscriber with its own identity, so the returned
// value must be kept to unregister it later.
func On[T Event](fn func(ctx context.Context, ev T)) Subscriber {
	return &typedSubscriber[T]{
		kind: KindOf[T](),
		fn:   fn,
	}
}

type typedSubscriber[T Event] struct {
	kind Kind
	fn   func(context.Context, T)
}

func (s *typedSubscriber[T]) Kind() Kind {
	return s.kind
}

func (s *typedSubscriber[T]) OnEvent(ctx context.Context, ev Event) {
	typed, ok := ev.(T)
	if !ok {
		// two event types declared the same kind
		slog.DebugContext(ctx, "skipping event with unexpected type",
			slogx.Kind(s.kind),
			slogx.Type("event", ev),
		)
		return
	}
	s.fn(ctx, typed)
}
