package slogx

import (
	"fmt"
	"log/slog"
)

const (
	// KeyLoggerName is the attribute key naming the component that logged.
	KeyLoggerName = "logger"
	// KeyKind is the attribute key for an event kind.
	KeyKind = "kind"
	// KeySubscriber is the attribute key for the dynamic type of a subscriber.
	KeySubscriber = "subscriber"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
//
// Parameters:
//   - err: The error to be converted into a slog.Attr. A nil error renders as "<nil>".
//
// Returns:
//   - slog.Attr: An attribute with the key "error" and the error's message as the value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Kind returns an attribute for an event kind. It accepts any string-like kind
// so this package does not depend on the bus.
func Kind[K ~string](kind K) slog.Attr {
	return slog.String(KeyKind, string(kind))
}

// Type returns an attribute holding the dynamic Go type of value, e.g.
// "*main.auditSubscriber".
//
// Parameters:
//   - key: The key for the attribute.
//   - value: Any value; only its type is logged.
//
// Returns:
//   - slog.Attr: An attribute containing the key and the formatted type name.
func Type(key string, value any) slog.Attr {
	return slog.String(key, fmt.Sprintf("%T", value))
}

// Subscriber is shorthand for Type(KeySubscriber, value).
func Subscriber(value any) slog.Attr {
	return Type(KeySubscriber, value)
}

// Recovered returns an attribute for a value obtained from recover().
func Recovered(value any) slog.Attr {
	if err, ok := value.(error); ok {
		return Error(err)
	}
	return slog.String("panic", fmt.Sprint(value))
}

// LoggerName creates a slog.Attr with the provided logger name.
// The attribute key is defined by KeyLoggerName.
//
// Parameters:
//   - name: The name of the logger.
//
// Returns:
//
//	A slog.Attr containing the logger name.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}
