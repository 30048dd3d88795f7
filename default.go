package eventbus

import (
	"sync"
	"sync/atomic"
)

var (
	defaultBus atomic.Pointer[Bus]
	defaultMu  sync.Mutex
)

// Default returns the process-wide bus, creating it on first use with the
// FromEnv configuration. It lives until the process exits.
func Default() *Bus {
	if b := defaultBus.Load(); b != nil {
		return b
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if b := defaultBus.Load(); b != nil {
		return b
	}
	b := New(FromEnv())
	defaultBus.Store(b)
	return b
}

// SetDefault replaces the process-wide bus and returns the previous one, which
// may be nil if Default was never called. Passing nil makes the next call to
// Default build a fresh bus. It exists so tests can isolate themselves; closing
// the previous bus is up to the caller.
func SetDefault(b *Bus) *Bus {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultBus.Swap(b)
}

// Post publishes ev on the process-wide bus.
func Post(ev Event) {
	Default().Post(ev)
}

// Register adds sub to the process-wide bus.
func Register(sub Subscriber) {
	Default().Register(sub)
}

// Unregister removes one registration of sub from the process-wide bus.
func Unregister(sub Subscriber) {
	Default().Unregister(sub)
}
