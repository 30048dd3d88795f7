// Package eventbusfx wires an eventbus.Bus into an fx application.
//
// The module provides a *eventbus.Bus, registers every subscriber provided in
// the "eventbus.subscribers" value group when the application starts, and
// unregisters them and closes the bus when it stops.
package eventbusfx

import (
	"context"

	"github.com/casualjim/eventbus"
	"go.uber.org/fx"
)

// SubscribersGroup is the value group collected by Module.
const SubscribersGroup = "eventbus.subscribers"

// Module returns an fx module providing a bus built with options.
func Module(options ...eventbus.Option) fx.Option {
	return fx.Module("eventbus",
		fx.Provide(func(lc fx.Lifecycle) *eventbus.Bus {
			bus := eventbus.New(options...)
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					return bus.Close()
				},
			})
			return bus
		}),
		fx.Invoke(registerSubscribers),
	)
}

// AsSubscriber annotates a constructor so its result joins the subscribers
// registered by Module.
func AsSubscriber(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(eventbus.Subscriber)),
		fx.ResultTags(`group:"`+SubscribersGroup+`"`),
	)
}

type subscribersIn struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Bus         *eventbus.Bus
	Subscribers []eventbus.Subscriber `group:"eventbus.subscribers"`
}

func registerSubscribers(in subscribersIn) {
	in.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, sub := range in.Subscribers {
				in.Bus.Register(sub)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			for _, sub := range in.Subscribers {
				in.Bus.Unregister(sub)
			}
			return nil
		},
	})
}
