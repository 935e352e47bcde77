package systems

import (
	"math"
	"time"

	"veldt/internal/demo/components"
	"veldt/pkg/ecs"
)

// goldenAngle spreads spawn directions evenly without a RNG.
const goldenAngle = 2.399963229728653

// Spawner seeds the world with a kept "player" entity on start and emits
// short-lived drifting motes on a fixed interval while running.
type Spawner struct {
	ecs.BaseSystem

	world  *ecs.World
	origin components.Vector2
	every  time.Duration
	ttl    time.Duration

	acc     time.Duration
	spawned uint64
}

// NewSpawner creates a spawner emitting one mote per interval, each
// living for ttl.
func NewSpawner(world *ecs.World, origin components.Vector2, every, ttl time.Duration) *Spawner {
	return &Spawner{world: world, origin: origin, every: every, ttl: ttl}
}

// Spawned returns how many motes have been emitted.
func (s *Spawner) Spawned() uint64 {
	return s.spawned
}

// OnStart creates the kept player entity if it does not exist yet, so a
// restart after a stop does not duplicate it.
func (s *Spawner) OnStart() error {
	existing := s.world.Entities.ByName("player", false)
	alive := existing.Valid()
	existing.Release()
	if alive {
		return nil
	}
	player := s.world.Entities.Create("player")
	defer player.Release()
	e, err := player.Entity()
	if err != nil {
		return err
	}
	e.SetKept(true)
	ecs.AssignComponent(e, components.NewTransform(s.origin.X, s.origin.Y)).Release()
	ecs.AssignComponent(e, components.NewHealth(100)).Release()
	return nil
}

// OnUpdate accumulates dt and emits one mote per elapsed interval.
func (s *Spawner) OnUpdate(dt time.Duration) error {
	s.acc += dt
	for s.acc >= s.every {
		s.acc -= s.every
		s.spawn()
	}
	return nil
}

// OnStop drops the accumulated remainder so a restart begins a fresh
// interval.
func (s *Spawner) OnStop() error {
	s.acc = 0
	return nil
}

func (s *Spawner) spawn() {
	angle := float64(s.spawned) * goldenAngle
	s.spawned++

	mote := s.world.Entities.Create("mote")
	defer mote.Release()
	e, err := mote.Entity()
	if err != nil {
		return
	}
	ecs.AssignComponent(e, components.NewTransform(s.origin.X, s.origin.Y)).Release()
	velocity := components.NewVelocity(math.Cos(angle)*60, math.Sin(angle)*60)
	velocity.MaxSpeed = 90
	ecs.AssignComponent(e, velocity).Release()
	ecs.AssignComponent(e, components.NewLifetime(s.ttl)).Release()
}
