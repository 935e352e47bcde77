// Package systems defines the concrete systems driving the veldt demo.
// Each embeds ecs.BaseSystem and overrides the lifecycle callbacks it
// needs.
package systems

import (
	"math"
	"time"

	"veldt/internal/demo/components"
	"veldt/pkg/ecs"
)

// Rect is an axis-aligned bounding rectangle for movement constraints.
type Rect struct {
	X, Y, Width, Height float64
}

// Movement integrates velocities into positions for every enabled entity
// carrying Transform and Velocity, clamping to an optional boundary.
type Movement struct {
	ecs.BaseSystem

	world  *ecs.World
	bounds *Rect
}

// NewMovement creates a movement system over world.
func NewMovement(world *ecs.World) *Movement {
	return &Movement{world: world}
}

// SetBounds constrains positions to the given rectangle.
func (s *Movement) SetBounds(x, y, width, height float64) {
	s.bounds = &Rect{X: x, Y: y, Width: width, Height: height}
}

// OnUpdate advances every moving entity by dt.
func (s *Movement) OnUpdate(dt time.Duration) error {
	secs := dt.Seconds()
	ecs.ForEachWith2(s.world.Entities, func(
		e *ecs.EntityHandle,
		th *ecs.ComponentHandle[*components.Transform],
		vh *ecs.ComponentHandle[*components.Velocity],
	) {
		transform := th.Get()
		velocity := vh.Get()

		s.limitSpeed(velocity)
		transform.Position.X += velocity.Linear.X * secs
		transform.Position.Y += velocity.Linear.Y * secs
		s.clampToBounds(&transform.Position)

		e.Release()
		th.Release()
		vh.Release()
	}, true)
	return nil
}

func (s *Movement) limitSpeed(v *components.Velocity) {
	if v.MaxSpeed <= 0 {
		return
	}
	speed := math.Hypot(v.Linear.X, v.Linear.Y)
	if speed > v.MaxSpeed {
		scale := v.MaxSpeed / speed
		v.Linear.X *= scale
		v.Linear.Y *= scale
	}
}

func (s *Movement) clampToBounds(p *components.Vector2) {
	if s.bounds == nil {
		return
	}
	p.X = math.Max(s.bounds.X, math.Min(p.X, s.bounds.X+s.bounds.Width))
	p.Y = math.Max(s.bounds.Y, math.Min(p.Y, s.bounds.Y+s.bounds.Height))
}
