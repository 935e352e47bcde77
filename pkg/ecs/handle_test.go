package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EntityHandle_InvalidationCascade(t *testing.T) {
	// S1: deleting an entity invalidates its entity handles and the
	// handles of every component it carried.
	events := NewEventManager()
	manager := NewEntityManager(events)

	hA := manager.Create("player")
	e, err := hA.Entity()
	require.NoError(t, err)
	hH := AssignComponent(e, &healthComp{hp: 100})

	manager.Delete(e.ID())

	assert.False(t, hA.Valid())
	assert.False(t, hH.Valid())
	_, err = hH.Component()
	assert.True(t, IsBadHandle(err))
	_, err = hA.Entity()
	assert.True(t, IsBadHandle(err))
}

func Test_EntityHandle_CloneRegistersOwnListener(t *testing.T) {
	events := NewEventManager()
	manager := NewEntityManager(events)
	original := manager.Create("subject")

	clone := original.Clone()
	original.Release()

	// The released original stops tracking; the clone still invalidates.
	manager.Delete(clone.Get().ID())
	assert.False(t, clone.Valid())
}

func Test_EntityHandle_SetCopiesReferentOnly(t *testing.T) {
	events := NewEventManager()
	manager := NewEntityManager(events)
	a := manager.Create("a")
	b := manager.Create("b")

	target := manager.ByID(a.Get().ID())
	target.Set(b)

	// The listener established at construction keeps observing: it
	// compares against the current referent, so destroying b clears it.
	manager.Delete(b.Get().ID())
	assert.False(t, target.Valid())
}

func Test_EntityHandle_Equality(t *testing.T) {
	events := NewEventManager()
	manager := NewEntityManager(events)
	a := manager.Create("a")
	b := manager.Create("b")

	t.Run("same referent", func(t *testing.T) {
		other := manager.ByID(a.Get().ID())
		assert.True(t, a.Equal(other))
	})

	t.Run("different referents", func(t *testing.T) {
		assert.False(t, a.Equal(b))
	})

	t.Run("two invalid handles are equal", func(t *testing.T) {
		x := NewEntityHandle(events, nil)
		y := manager.ByID(ID(9999))
		assert.True(t, x.Equal(y))
	})

	t.Run("valid never equals invalid", func(t *testing.T) {
		invalid := NewEntityHandle(events, nil)
		assert.False(t, a.Equal(invalid))
		assert.False(t, invalid.Equal(a))
	})
}

func Test_EntityHandle_ReleaseStopsTracking(t *testing.T) {
	events := NewEventManager()
	manager := NewEntityManager(events)
	h := manager.Create("subject")
	before := events.ListenerCount()

	h.Release()

	assert.Equal(t, before-1, events.ListenerCount())
	assert.NotPanics(t, func() { h.Release() }, "double release is harmless")
}

func Test_ComponentHandle_CloneAndSet(t *testing.T) {
	events := NewEventManager()
	manager := NewEntityManager(events)
	e := manager.Create("subject").Get()
	h := AssignComponent(e, &healthComp{hp: 1})

	clone := h.Clone()
	assert.True(t, clone.Valid())
	assert.True(t, clone.Equal(h))

	empty := NewEmptyComponentHandle[*healthComp](events)
	empty.Set(h)
	assert.True(t, empty.Valid())
	assert.Equal(t, h.Get(), empty.Get())

	RemoveComponent[*healthComp](e)
	assert.False(t, h.Valid())
	assert.False(t, clone.Valid())
}

func Test_ComponentHandle_Equality(t *testing.T) {
	events := NewEventManager()
	manager := NewEntityManager(events)
	e := manager.Create("subject").Get()

	a := AssignComponent(e, &healthComp{})
	b := GetComponent[*healthComp](e)
	assert.True(t, a.Equal(b))

	invalid1 := NewEmptyComponentHandle[*healthComp](events)
	invalid2 := NewEmptyComponentHandle[*healthComp](events)
	assert.True(t, invalid1.Equal(invalid2))
	assert.False(t, a.Equal(invalid1))
}

func Test_ComponentHandle_TypedInvalidationIsIndependent(t *testing.T) {
	events := NewEventManager()
	manager := NewEntityManager(events)
	e := manager.Create("subject").Get()
	hHealth := AssignComponent(e, &healthComp{})
	hArmor := AssignComponent(e, &armorComp{})

	RemoveComponent[*healthComp](e)

	assert.False(t, hHealth.Valid())
	assert.True(t, hArmor.Valid(), "removing one type leaves other handles alone")
}
