package systems

import (
	"time"

	"veldt/internal/demo/components"
	"veldt/pkg/ecs"
)

// Decay counts down Lifetime components and schedules expired entities
// for deferred deletion. The host loop drains the queue with
// ApplySafeDelete after each tick.
type Decay struct {
	ecs.BaseSystem

	world *ecs.World
}

// NewDecay creates a decay system over world.
func NewDecay(world *ecs.World) *Decay {
	return &Decay{world: world}
}

// OnUpdate ages every entity carrying a Lifetime.
func (s *Decay) OnUpdate(dt time.Duration) error {
	ecs.ForEachWith(s.world.Entities, func(
		e *ecs.EntityHandle,
		lh *ecs.ComponentHandle[*components.Lifetime],
	) {
		lifetime := lh.Get()
		lifetime.Remaining -= dt
		if lifetime.Expired() {
			s.world.Entities.SafeDelete(e.Get().ID())
		}
		e.Release()
		lh.Release()
	}, false)
	return nil
}
