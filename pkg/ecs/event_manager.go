package ecs

import (
	"github.com/rs/zerolog"
)

// listener is one registration: a stable identifier, the event type bucket
// it lives in, and the type-erased callback. The removed flag is a
// tombstone honored by in-flight emissions.
type listener struct {
	id      ID
	key     TypeKey
	call    func(event any)
	removed bool
}

// EventManager is a type-indexed synchronous publish/subscribe bus.
//
// Listeners are invoked in registration order. Listener identifiers are
// unique for the lifetime of the manager and recycled FIFO after removal.
// Callbacks may freely call AddListener, RemoveListener and Emit; see Emit
// for the re-entrancy policy.
type EventManager struct {
	ids     idAllocator
	buckets map[TypeKey][]*listener
	log     zerolog.Logger
}

// NewEventManager creates an empty bus. Logging is disabled until
// SetLogger is called.
func NewEventManager() *EventManager {
	return &EventManager{
		buckets: make(map[TypeKey][]*listener),
		log:     zerolog.Nop(),
	}
}

// SetLogger installs a logger used for trace-level dispatch diagnostics.
func (em *EventManager) SetLogger(log zerolog.Logger) {
	em.log = log
}

// AddListener registers fn for events of type E and returns the listener
// identifier to use with RemoveListener.
func AddListener[E any](em *EventManager, fn func(E)) ID {
	key := KeyOf[E]()
	id := em.ids.next()
	l := &listener{
		id:  id,
		key: key,
		call: func(event any) {
			fn(event.(E))
		},
	}
	em.buckets[key] = append(em.buckets[key], l)
	return id
}

// RemoveListener unregisters a listener by identifier and recycles the
// identifier. Unknown identifiers are ignored. A listener removed while an
// emission is in flight is not invoked again, not even by that emission.
func (em *EventManager) RemoveListener(id ID) {
	if !id.IsValid() {
		return
	}
	for key, bucket := range em.buckets {
		for i, l := range bucket {
			if l.id != id {
				continue
			}
			l.removed = true
			// Full-slice expression forces a copy so snapshots taken by
			// in-flight emissions keep their backing array.
			em.buckets[key] = append(bucket[:i:i], bucket[i+1:]...)
			em.ids.release(id)
			return
		}
	}
}

// Emit dispatches event synchronously to every listener registered for E,
// in registration order. Emit never fails.
//
// Re-entrancy policy: the bucket is snapshotted before iteration, then
// each listener's tombstone is checked right before its callback runs.
// Listeners removed during the emission are therefore silenced
// immediately; listeners added during the emission run from the next Emit
// on.
func Emit[E any](em *EventManager, event E) {
	bucket := em.buckets[KeyOf[E]()]
	if len(bucket) == 0 {
		return
	}
	snapshot := make([]*listener, len(bucket))
	copy(snapshot, bucket)
	em.log.Trace().Str("event", KeyOf[E]().String()).Int("listeners", len(snapshot)).Msg("emit")
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		l.call(event)
	}
}

// ListenerCount returns the number of live registrations across all event
// types.
func (em *EventManager) ListenerCount() int {
	n := 0
	for _, bucket := range em.buckets {
		n += len(bucket)
	}
	return n
}
