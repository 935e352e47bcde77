package ecs

import (
	"github.com/rs/zerolog"
)

// EntityManager exclusively owns all entities. It mints their identifiers
// (dense, FIFO-recycled), registers them, and runs destruction — either
// immediately through Delete or deferred through SafeDelete +
// ApplySafeDelete.
//
// Iteration over entities is deterministic: insertion order.
type EntityManager struct {
	events *EventManager

	ids      idAllocator
	entities map[ID]*Entity
	order    []ID

	toDestroy []ID

	log zerolog.Logger
}

// NewEntityManager creates an empty registry publishing lifecycle events
// through events.
func NewEntityManager(events *EventManager) *EntityManager {
	return &EntityManager{
		events:   events,
		entities: make(map[ID]*Entity),
		log:      zerolog.Nop(),
	}
}

// SetLogger installs a logger for create/destroy diagnostics.
func (m *EntityManager) SetLogger(log zerolog.Logger) {
	m.log = log
}

// register enforces the identifier-uniqueness invariant. Unreachable
// through the public API: the allocator never hands out a live ID.
func (m *EntityManager) register(e *Entity) error {
	if _, exists := m.entities[e.id]; exists {
		return NewEntityError(ErrEntityAlreadyRegistered, "entity id already registered", e.id)
	}
	m.entities[e.id] = e
	m.order = append(m.order, e.id)
	return nil
}

// Create allocates an identifier (free list first, then bump), constructs
// the entity — firing EntityCreated — registers it, and returns a handle.
func (m *EntityManager) Create(name string) *EntityHandle {
	id := m.ids.next()
	e := newEntity(m.events, id, name)
	if err := m.register(e); err != nil {
		panic(err)
	}
	m.log.Debug().Uint64("id", uint64(id)).Str("name", name).Msg("entity created")
	return NewEntityHandle(m.events, e)
}

// Delete destroys the entity immediately: components first (each firing
// its typed destruction event), then EntityDestroyed, then the identifier
// returns to the free list. Returns whether the entity existed. All
// outstanding handles to the entity and its components are invalid by the
// time Delete returns.
func (m *EntityManager) Delete(id ID) bool {
	e, ok := m.entities[id]
	if !ok {
		return false
	}
	e.destroy()
	m.ids.release(id)
	delete(m.entities, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.log.Debug().Uint64("id", uint64(id)).Msg("entity destroyed")
	return true
}

// SafeDelete schedules the entity for destruction at the next
// ApplySafeDelete. Enqueueing the same identifier more than once is
// allowed.
func (m *EntityManager) SafeDelete(id ID) {
	m.toDestroy = append(m.toDestroy, id)
}

// ApplySafeDelete drains the deferred queue, deleting each scheduled
// entity in enqueue order. Identifiers that no longer exist are ignored.
func (m *EntityManager) ApplySafeDelete() {
	pending := m.toDestroy
	m.toDestroy = nil
	for _, id := range pending {
		m.Delete(id)
	}
}

// DeleteAll destroys every entity whose keep flag is unset, in insertion
// order.
func (m *EntityManager) DeleteAll() {
	for {
		target := InvalidID
		for _, id := range m.order {
			if e := m.entities[id]; e != nil && !e.Kept() {
				target = id
				break
			}
		}
		if !target.IsValid() {
			return
		}
		m.Delete(target)
	}
}

// ByID returns a handle to the entity with the given identifier; an
// invalid handle if absent.
func (m *EntityManager) ByID(id ID) *EntityHandle {
	return NewEntityHandle(m.events, m.entities[id])
}

// ByName returns a handle to the first entity (in insertion order) with
// the given name, skipping disabled entities when onlyEnabled is set; an
// invalid handle if none matches.
func (m *EntityManager) ByName(name string, onlyEnabled bool) *EntityHandle {
	for _, id := range m.order {
		e := m.entities[id]
		if e.name == name && (e.enabled || !onlyEnabled) {
			return NewEntityHandle(m.events, e)
		}
	}
	return NewEntityHandle(m.events, nil)
}

// AllByName returns handles to every entity with the given name.
func (m *EntityManager) AllByName(name string, onlyEnabled bool) []*EntityHandle {
	var matching []*EntityHandle
	for _, id := range m.order {
		e := m.entities[id]
		if e.name == name && (e.enabled || !onlyEnabled) {
			matching = append(matching, NewEntityHandle(m.events, e))
		}
	}
	return matching
}

// With returns handles to every entity whose component set is a superset
// of keys. Obtain keys with KeyOf.
func (m *EntityManager) With(onlyEnabled bool, keys ...TypeKey) []*EntityHandle {
	var matching []*EntityHandle
	for _, id := range m.order {
		e := m.entities[id]
		if e.HasComponents(keys...) && (e.enabled || !onlyEnabled) {
			matching = append(matching, NewEntityHandle(m.events, e))
		}
	}
	return matching
}

// ForEach invokes fn for every entity in insertion order. fn owns the
// handle it receives and should Release it unless it retains it.
func (m *EntityManager) ForEach(fn func(*EntityHandle), onlyEnabled bool) {
	for _, id := range m.snapshotOrder() {
		e, ok := m.entities[id]
		if !ok {
			continue
		}
		if e.enabled || !onlyEnabled {
			fn(NewEntityHandle(m.events, e))
		}
	}
}

// snapshotOrder copies the iteration order so callbacks may create and
// delete entities mid-iteration.
func (m *EntityManager) snapshotOrder() []ID {
	snapshot := make([]ID, len(m.order))
	copy(snapshot, m.order)
	return snapshot
}

// ForEachWith invokes fn for every entity carrying a component of type A.
// The callback owns the handles it receives; Release them unless retained.
func ForEachWith[A Component](m *EntityManager, fn func(*EntityHandle, *ComponentHandle[A]), onlyEnabled bool) {
	for _, id := range m.snapshotOrder() {
		e, ok := m.entities[id]
		if !ok {
			continue
		}
		if e.HasComponents(KeyOf[A]()) && (e.enabled || !onlyEnabled) {
			fn(NewEntityHandle(m.events, e), GetComponent[A](e))
		}
	}
}

// ForEachWith2 invokes fn for every entity carrying components of types A
// and B.
func ForEachWith2[A, B Component](m *EntityManager, fn func(*EntityHandle, *ComponentHandle[A], *ComponentHandle[B]), onlyEnabled bool) {
	for _, id := range m.snapshotOrder() {
		e, ok := m.entities[id]
		if !ok {
			continue
		}
		if e.HasComponents(KeyOf[A](), KeyOf[B]()) && (e.enabled || !onlyEnabled) {
			fn(NewEntityHandle(m.events, e), GetComponent[A](e), GetComponent[B](e))
		}
	}
}

// ForEachWith3 invokes fn for every entity carrying components of types A,
// B and C.
func ForEachWith3[A, B, C Component](m *EntityManager, fn func(*EntityHandle, *ComponentHandle[A], *ComponentHandle[B], *ComponentHandle[C]), onlyEnabled bool) {
	for _, id := range m.snapshotOrder() {
		e, ok := m.entities[id]
		if !ok {
			continue
		}
		if e.HasComponents(KeyOf[A](), KeyOf[B](), KeyOf[C]()) && (e.enabled || !onlyEnabled) {
			fn(NewEntityHandle(m.events, e), GetComponent[A](e), GetComponent[B](e), GetComponent[C](e))
		}
	}
}

// Count returns the number of live entities.
func (m *EntityManager) Count() int {
	return len(m.entities)
}

// Close destroys every remaining entity, kept or not, in insertion order.
// Destruction events fire normally, so outstanding handles invalidate the
// same way they do for Delete.
func (m *EntityManager) Close() {
	for _, id := range m.snapshotOrder() {
		m.Delete(id)
	}
	m.toDestroy = nil
}
