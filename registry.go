package eventbus

import (
	"errors"
	"reflect"
	"slices"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	errNilSubscriber          = errors.New("eventbus: nil subscriber")
	errIncomparableSubscriber = errors.New("eventbus: subscriber type is not comparable")
)

// registry maps event kinds to the subscribers registered for them.
// Kinds are kept in first-registration order; subscribers within a kind are
// kept in registration order, which is the order deliveries are scheduled in.
type registry struct {
	mu    sync.RWMutex
	kinds *orderedmap.OrderedMap[Kind, []Subscriber]
}

func newRegistry() *registry {
	return &registry{
		kinds: orderedmap.New[Kind, []Subscriber](),
	}
}

// checkSubscriber reports why sub cannot be stored. Unregister compares entries
// with ==, which panics for dynamic types such as maps, slices or funcs.
// Structs with interface fields pass this check and are handled by
// sameSubscriber instead.
func checkSubscriber(sub Subscriber) error {
	if sub == nil {
		return errNilSubscriber
	}
	if !reflect.TypeOf(sub).Comparable() {
		return errIncomparableSubscriber
	}
	return nil
}

func (r *registry) register(sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := sub.Kind()
	subs, _ := r.kinds.Get(kind)
	r.kinds.Set(kind, append(subs, sub))
}

// unregister removes the first entry identical to sub and reports whether one
// was found.
func (r *registry) unregister(sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := sub.Kind()
	subs, ok := r.kinds.Get(kind)
	if !ok {
		return false
	}
	idx := slices.IndexFunc(subs, func(s Subscriber) bool { return sameSubscriber(s, sub) })
	if idx < 0 {
		return false
	}

	remaining := slices.Delete(subs, idx, idx+1)
	if len(remaining) == 0 {
		r.kinds.Delete(kind)
		return true
	}
	r.kinds.Set(kind, remaining)
	return true
}

// sameSubscriber compares a and b with ==. A comparable struct can still hold
// a slice or map in an interface field, and comparing it panics at runtime;
// such values never match.
func sameSubscriber(a, b Subscriber) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// lookup returns a snapshot of the subscribers for kind. The caller may keep
// it after the lock is released.
func (r *registry) lookup(kind Kind) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs, ok := r.kinds.Get(kind)
	if !ok {
		return nil
	}
	return slices.Clone(subs)
}

func (r *registry) count(kind Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs, _ := r.kinds.Get(kind)
	return len(subs)
}

func (r *registry) list() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Kind, 0, r.kinds.Len())
	for pair := r.kinds.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Key)
	}
	return result
}
