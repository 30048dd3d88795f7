package eventbus

import (
	"context"
	"log/slog"

	"github.com/casualjim/eventbus/pkg/slogx"
	"github.com/goccy/go-json"
)

// Logging returns a subscriber that logs every event of kind as JSON at info
// level. It is meant for debugging: register it next to the real subscribers to
// see what flows through the bus.
func Logging(kind Kind, logger *slog.Logger) Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingSubscriber{kind: kind, logger: logger}
}

type loggingSubscriber struct {
	kind   Kind
	logger *slog.Logger
}

func (l *loggingSubscriber) Kind() Kind {
	return l.kind
}

func (l *loggingSubscriber) OnEvent(ctx context.Context, ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to marshal event", slogx.Kind(l.kind), slogx.Error(err))
		return
	}
	l.logger.InfoContext(ctx, "event", slogx.Kind(l.kind), slogx.Type("type", ev), slog.String("event", string(b)))
}
