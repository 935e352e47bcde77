package ecs

// Component is the contract for data attached to entities. Concrete
// component types are defined by clients and must embed BaseComponent,
// which supplies the back-reference to the owning entity; the unexported
// methods make the embedding mandatory.
//
// A component's lifetime is strictly contained within its owning entity's
// lifetime: it is attached by AssignComponent and destroyed by
// RemoveComponent, replacement, or entity destruction.
type Component interface {
	ownerEntity() *Entity
	attach(*Entity)
	detach()
}

// BaseComponent is the embeddable base for all concrete component types.
type BaseComponent struct {
	entity *Entity
}

func (b *BaseComponent) ownerEntity() *Entity { return b.entity }

func (b *BaseComponent) attach(e *Entity) { b.entity = e }

func (b *BaseComponent) detach() { b.entity = nil }

// Owner returns a handle to the entity this component sits on. The handle
// is invalid if the component is not currently attached.
func (b *BaseComponent) Owner() *EntityHandle {
	if b.entity == nil {
		return NewEntityHandle(nil, nil)
	}
	return NewEntityHandle(b.entity.events, b.entity)
}
