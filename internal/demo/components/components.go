// Package components defines the concrete components used by the veldt
// demo. Each embeds ecs.BaseComponent and is attached to entities with
// ecs.AssignComponent.
package components

import (
	"veldt/pkg/ecs"
)

// Vector2 represents a 2D vector for positions and velocities.
type Vector2 struct {
	X float64
	Y float64
}

// Transform holds an entity's position and rotation.
type Transform struct {
	ecs.BaseComponent

	Position Vector2
	Rotation float64
}

// NewTransform creates a transform at the given position.
func NewTransform(x, y float64) *Transform {
	return &Transform{Position: Vector2{X: x, Y: y}}
}

// Velocity holds an entity's linear velocity. MaxSpeed <= 0 means no
// limit; the movement system clamps to it otherwise.
type Velocity struct {
	ecs.BaseComponent

	Linear   Vector2
	MaxSpeed float64
}

// NewVelocity creates a velocity component with no speed limit.
func NewVelocity(dx, dy float64) *Velocity {
	return &Velocity{Linear: Vector2{X: dx, Y: dy}, MaxSpeed: -1}
}
