package ecs

// EntityHandle is a non-owning, self-invalidating reference to an entity.
//
// Construction registers a listener on EntityDestroyed whose callback
// clears the referent when the destroyed entity matches; the handle is
// valid exactly while its referent is alive. Clone registers a fresh
// listener for the copy; Set copies the referent only, leaving the
// listener established at construction in place.
//
// Go has no destructors, so a handle holds its listener registration until
// Release is called. Each live handle costs one registration; keep handle
// counts bounded and release handles created inside per-tick loops.
type EntityHandle struct {
	events   *EventManager
	ptr      *Entity
	listener ID
}

// NewEntityHandle creates a handle for entity, which may be nil for an
// invalid handle. The handle self-invalidates through events; a nil event
// manager yields a handle that never invalidates (used only for detached
// owners).
func NewEntityHandle(events *EventManager, entity *Entity) *EntityHandle {
	h := &EntityHandle{events: events, ptr: entity}
	if events != nil {
		h.listener = AddListener(events, func(ev EntityDestroyed) {
			if h.ptr != nil && ev.Entity == h.ptr {
				h.ptr = nil
			}
		})
	}
	return h
}

// Valid reports whether the referent is set and alive.
func (h *EntityHandle) Valid() bool {
	return h.ptr != nil
}

// Entity dereferences the handle. Fails with a BAD_HANDLE error when the
// referent was destroyed or never set.
func (h *EntityHandle) Entity() (*Entity, error) {
	if h.ptr == nil {
		return nil, NewECSError(ErrBadHandle, "invalid entity handle")
	}
	return h.ptr, nil
}

// Get returns the raw referent without an error; nil when invalid. Do not
// store the returned pointer — keep the handle instead.
func (h *EntityHandle) Get() *Entity {
	return h.ptr
}

// Set copies the referent from another handle. The listener registered at
// construction keeps observing; it is not re-registered.
func (h *EntityHandle) Set(other *EntityHandle) {
	h.ptr = other.ptr
}

// Clone returns a new handle to the same referent with its own listener
// registration.
func (h *EntityHandle) Clone() *EntityHandle {
	return NewEntityHandle(h.events, h.ptr)
}

// Equal reports whether both handles reference the same live entity. Two
// invalid handles compare equal.
func (h *EntityHandle) Equal(other *EntityHandle) bool {
	if !h.Valid() && !other.Valid() {
		return true
	}
	if !h.Valid() || !other.Valid() {
		return false
	}
	return h.ptr == other.ptr
}

// Release drops the destruction listener. The handle stops tracking its
// referent; call it once the handle is no longer needed.
func (h *EntityHandle) Release() {
	if h.events != nil && h.listener.IsValid() {
		h.events.RemoveListener(h.listener)
		h.listener = InvalidID
	}
}
