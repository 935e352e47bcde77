package ecs

// componentSlot pairs the type-erased component with a closure that emits
// its typed destruction event. The closure is captured at assign time,
// when the concrete type is still known, so the cascade in destroy can
// publish ComponentDestroyed[C] without recovering C from the erased
// value.
type componentSlot struct {
	component     Component
	emitDestroyed func()
}

// Entity is a named, identified holder of components: at most one
// component per concrete type. Entities are created and destroyed only by
// the EntityManager; client code navigates them through handles.
type Entity struct {
	id      ID
	name    string
	enabled bool
	keep    bool

	events     *EventManager
	components map[TypeKey]*componentSlot
	order      []TypeKey
}

// newEntity constructs an entity and emits EntityCreated. Only the entity
// manager calls this.
func newEntity(events *EventManager, id ID, name string) *Entity {
	e := &Entity{
		id:         id,
		name:       name,
		enabled:    true,
		events:     events,
		components: make(map[TypeKey]*componentSlot),
	}
	Emit(events, EntityCreated{Entity: e})
	return e
}

// ID returns the entity's identifier. Immutable.
func (e *Entity) ID() ID { return e.id }

// Name returns the entity's name. Immutable and not required to be unique.
func (e *Entity) Name() string { return e.name }

// Enabled reports whether the entity participates in filtered iteration by
// default.
func (e *Entity) Enabled() bool { return e.enabled }

// SetEnabled toggles the enabled flag.
func (e *Entity) SetEnabled(enabled bool) { e.enabled = enabled }

// Kept reports whether DeleteAll spares this entity.
func (e *Entity) Kept() bool { return e.keep }

// SetKept marks the entity to survive DeleteAll.
func (e *Entity) SetKept(keep bool) { e.keep = keep }

// Has reports whether a component with the given type key is present.
func (e *Entity) Has(key TypeKey) bool {
	_, ok := e.components[key]
	return ok
}

// HasComponents reports whether the entity's component set is a superset
// of the given keys. True for an empty key list.
func (e *Entity) HasComponents(keys ...TypeKey) bool {
	for _, key := range keys {
		if !e.Has(key) {
			return false
		}
	}
	return true
}

// destroy tears the entity down: components first, in assignment order,
// each emitting its typed destruction event, then EntityDestroyed. By the
// time destroy returns every outstanding handle to the entity or any of
// its components is invalid.
func (e *Entity) destroy() {
	for _, key := range e.order {
		slot := e.components[key]
		slot.emitDestroyed()
		slot.component.detach()
	}
	e.components = make(map[TypeKey]*componentSlot)
	e.order = nil
	Emit(e.events, EntityDestroyed{Entity: e})
}

func (e *Entity) removeSlot(key TypeKey) {
	delete(e.components, key)
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			return
		}
	}
}

// GetComponent returns a handle to the entity's component of type C, or an
// invalid handle if none is attached.
func GetComponent[C Component](e *Entity) *ComponentHandle[C] {
	slot, ok := e.components[KeyOf[C]()]
	if !ok {
		return NewEmptyComponentHandle[C](e.events)
	}
	return NewComponentHandle(e.events, slot.component.(C))
}

// GetComponents2 is the component-wise GetComponent for two types.
func GetComponents2[A, B Component](e *Entity) (*ComponentHandle[A], *ComponentHandle[B]) {
	return GetComponent[A](e), GetComponent[B](e)
}

// GetComponents3 is the component-wise GetComponent for three types.
func GetComponents3[A, B, C Component](e *Entity) (*ComponentHandle[A], *ComponentHandle[B], *ComponentHandle[C]) {
	return GetComponent[A](e), GetComponent[B](e), GetComponent[C](e)
}

// HasComponent reports whether a component of type C is attached.
func HasComponent[C Component](e *Entity) bool {
	return e.Has(KeyOf[C]())
}

// AssignComponent attaches component to the entity and returns a handle to
// it. If a component of type C is already attached, the old one is
// destroyed first — its ComponentDestroyed[C] event fires and outstanding
// handles to it invalidate — before the new one is installed and
// ComponentCreated[C] fires.
func AssignComponent[C Component](e *Entity, component C) *ComponentHandle[C] {
	key := KeyOf[C]()
	if old, ok := e.components[key]; ok {
		old.emitDestroyed()
		old.component.detach()
	} else {
		e.order = append(e.order, key)
	}
	component.attach(e)
	slot := &componentSlot{component: component}
	slot.emitDestroyed = func() {
		Emit(e.events, ComponentDestroyed[C]{Entity: e, Component: component})
	}
	e.components[key] = slot
	Emit(e.events, ComponentCreated[C]{Entity: e, Component: component})
	return NewComponentHandle(e.events, component)
}

// RemoveComponent destroys and detaches the entity's component of type C.
// Returns whether one existed.
func RemoveComponent[C Component](e *Entity) bool {
	key := KeyOf[C]()
	slot, ok := e.components[key]
	if !ok {
		return false
	}
	slot.emitDestroyed()
	slot.component.detach()
	e.removeSlot(key)
	return true
}
