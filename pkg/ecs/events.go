package ecs

// Built-in lifecycle events. All four carry raw references rather than
// handles: a destruction event must not hand out a handle (it would
// invalidate itself during its own dispatch), and for symmetry creation
// events do the same — subscribers that want a self-invalidating reference
// construct one with NewEntityHandle or NewComponentHandle.
//
// Do not retain the references carried by destruction events past the
// callback; the referent is gone once dispatch returns.

// EntityCreated is emitted when an entity is constructed, before Create
// returns its handle.
type EntityCreated struct {
	Entity *Entity
}

// EntityDestroyed is emitted while an entity is being destroyed, after all
// of its components have been destroyed.
type EntityDestroyed struct {
	Entity *Entity
}

// ComponentCreated is emitted when a component of concrete type C is
// installed on an entity.
type ComponentCreated[C Component] struct {
	Entity    *Entity
	Component C
}

// ComponentDestroyed is emitted while a component of concrete type C is
// being destroyed (removal, replacement, or entity destruction).
type ComponentDestroyed[C Component] struct {
	Entity    *Entity
	Component C
}
