package ecs

// ComponentHandle is the typed counterpart of EntityHandle for components
// of concrete type C. It subscribes to ComponentDestroyed[C] and clears
// itself when its referent is destroyed. The same lifetime rules apply:
// Clone re-registers, Set copies the referent only, Release drops the
// listener.
type ComponentHandle[C Component] struct {
	events   *EventManager
	ptr      C
	ok       bool
	listener ID
}

// NewComponentHandle creates a valid handle for component.
func NewComponentHandle[C Component](events *EventManager, component C) *ComponentHandle[C] {
	h := &ComponentHandle[C]{events: events, ptr: component, ok: true}
	h.register()
	return h
}

// NewEmptyComponentHandle creates an invalid handle. It still carries a
// listener registration, matching the cost model of valid handles.
func NewEmptyComponentHandle[C Component](events *EventManager) *ComponentHandle[C] {
	h := &ComponentHandle[C]{events: events}
	h.register()
	return h
}

func (h *ComponentHandle[C]) register() {
	if h.events == nil {
		return
	}
	h.listener = AddListener(h.events, func(ev ComponentDestroyed[C]) {
		if h.ok && any(ev.Component) == any(h.ptr) {
			var zero C
			h.ptr = zero
			h.ok = false
		}
	})
}

// Valid reports whether the referent is set and alive.
func (h *ComponentHandle[C]) Valid() bool {
	return h.ok
}

// Component dereferences the handle. Fails with a BAD_HANDLE error when
// the referent was destroyed or never set.
func (h *ComponentHandle[C]) Component() (C, error) {
	if !h.ok {
		var zero C
		return zero, NewECSError(ErrBadHandle, "invalid component handle")
	}
	return h.ptr, nil
}

// Get returns the raw referent without an error; the zero value when
// invalid. Do not store the returned component — keep the handle instead.
func (h *ComponentHandle[C]) Get() C {
	return h.ptr
}

// Set copies the referent from another handle; the listener registered at
// construction keeps observing.
func (h *ComponentHandle[C]) Set(other *ComponentHandle[C]) {
	h.ptr = other.ptr
	h.ok = other.ok
}

// Clone returns a new handle to the same referent with its own listener
// registration.
func (h *ComponentHandle[C]) Clone() *ComponentHandle[C] {
	if !h.ok {
		return NewEmptyComponentHandle[C](h.events)
	}
	return NewComponentHandle(h.events, h.ptr)
}

// Equal reports whether both handles reference the same live component.
// Two invalid handles compare equal.
func (h *ComponentHandle[C]) Equal(other *ComponentHandle[C]) bool {
	if !h.ok && !other.ok {
		return true
	}
	if !h.ok || !other.ok {
		return false
	}
	return any(h.ptr) == any(other.ptr)
}

// Release drops the destruction listener.
func (h *ComponentHandle[C]) Release() {
	if h.events != nil && h.listener.IsValid() {
		h.events.RemoveListener(h.listener)
		h.listener = InvalidID
	}
}
