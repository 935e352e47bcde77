package components

import (
	"time"

	"veldt/pkg/ecs"
)

// Health tracks hit points. Damage clamps at zero.
type Health struct {
	ecs.BaseComponent

	Current int
	Max     int
}

// NewHealth creates a health component at full hit points.
func NewHealth(max int) *Health {
	return &Health{Current: max, Max: max}
}

// TakeDamage reduces hit points and returns the damage actually applied.
func (h *Health) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > h.Current {
		amount = h.Current
	}
	h.Current -= amount
	return amount
}

// Heal restores hit points up to Max and returns the amount restored.
func (h *Health) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	if h.Current+amount > h.Max {
		amount = h.Max - h.Current
	}
	h.Current += amount
	return amount
}

// Alive reports whether any hit points remain.
func (h *Health) Alive() bool {
	return h.Current > 0
}

// Lifetime counts down an entity's remaining time to live. The decay
// system schedules expired entities for deferred deletion.
type Lifetime struct {
	ecs.BaseComponent

	Remaining time.Duration
}

// NewLifetime creates a lifetime component.
func NewLifetime(ttl time.Duration) *Lifetime {
	return &Lifetime{Remaining: ttl}
}

// Expired reports whether the time to live has run out.
func (l *Lifetime) Expired() bool {
	return l.Remaining <= 0
}
