package eventbus

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/casualjim/eventbus/pkg/slogx"
	"github.com/fogfish/opts"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultQueueCapacity is the number of posted events that may wait for the
	// dispatcher before Post starts dropping.
	DefaultQueueCapacity = 2048

	// DefaultName is the name of a bus created without the Name option.
	DefaultName = "default"

	// EnvQueueCapacity overrides the queue capacity when FromEnv is applied.
	EnvQueueCapacity = "EVENTBUS_QUEUE_CAPACITY"
	// EnvName overrides the bus name when FromEnv is applied.
	EnvName = "EVENTBUS_NAME"
)

// Option configures a Bus at construction time.
type Option = opts.Option[Bus]

// Name sets the name of the bus. It is used as the "bus" label on exported
// metrics and in log records.
var Name = opts.ForName[Bus, string]("name")

// QueueCapacity sets the capacity of the dispatch queue. It must be positive.
func QueueCapacity(capacity int) Option {
	return opts.Type[Bus](func(b *Bus) error {
		if capacity <= 0 {
			return fmt.Errorf("eventbus: queue capacity must be positive, got %d", capacity)
		}
		b.capacity = capacity
		return nil
	})
}

// Logger sets the logger used by the bus. A nil logger is ignored.
func Logger(logger *slog.Logger) Option {
	return opts.Type[Bus](func(b *Bus) error {
		if logger != nil {
			b.logger = logger
		}
		return nil
	})
}

// Registerer registers the collector of the bus with reg once the bus is
// built. A registration failure, e.g. two buses sharing a name on the same
// registry, is logged and does not prevent construction.
func Registerer(reg prometheus.Registerer) Option {
	return opts.Type[Bus](func(b *Bus) error {
		b.registerer = reg
		return nil
	})
}

// FromEnv reads EVENTBUS_QUEUE_CAPACITY and EVENTBUS_NAME. Unset variables keep
// their defaults; invalid values are logged and ignored so a bad environment
// never prevents the process-wide bus from starting.
func FromEnv() Option {
	return opts.Type[Bus](func(b *Bus) error {
		if name := os.Getenv(EnvName); name != "" {
			b.name = name
		}
		raw := os.Getenv(EnvQueueCapacity)
		if raw == "" {
			return nil
		}
		capacity, err := strconv.Atoi(raw)
		if err == nil && capacity <= 0 {
			err = fmt.Errorf("must be positive, got %d", capacity)
		}
		if err != nil {
			b.logger.Warn("ignoring invalid queue capacity",
				slog.String("env", EnvQueueCapacity),
				slogx.Error(err),
			)
			return nil
		}
		b.capacity = capacity
		return nil
	})
}
