package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veldt/internal/demo/components"
	"veldt/pkg/ecs"
)

func newWorld() *ecs.World {
	return ecs.NewWorld(ecs.DefaultWorldConfig())
}

func Test_Movement_IntegratesVelocity(t *testing.T) {
	world := newWorld()
	movement := NewMovement(world)
	e := world.Entities.Create("mover").Get()
	ecs.AssignComponent(e, components.NewTransform(100, 100))
	ecs.AssignComponent(e, components.NewVelocity(10, -20))

	require.NoError(t, movement.OnUpdate(500*time.Millisecond))

	pos := ecs.GetComponent[*components.Transform](e).Get().Position
	assert.InDelta(t, 105, pos.X, 1e-9)
	assert.InDelta(t, 90, pos.Y, 1e-9)
}

func Test_Movement_ClampsToBounds(t *testing.T) {
	world := newWorld()
	movement := NewMovement(world)
	movement.SetBounds(0, 0, 100, 100)
	e := world.Entities.Create("runner").Get()
	ecs.AssignComponent(e, components.NewTransform(95, 50))
	ecs.AssignComponent(e, components.NewVelocity(100, 0))

	require.NoError(t, movement.OnUpdate(time.Second))

	pos := ecs.GetComponent[*components.Transform](e).Get().Position
	assert.Equal(t, 100.0, pos.X)
	assert.Equal(t, 50.0, pos.Y)
}

func Test_Movement_LimitsSpeed(t *testing.T) {
	world := newWorld()
	movement := NewMovement(world)
	e := world.Entities.Create("sprinter").Get()
	ecs.AssignComponent(e, components.NewTransform(0, 0))
	velocity := components.NewVelocity(30, 40) // speed 50
	velocity.MaxSpeed = 5
	ecs.AssignComponent(e, velocity)

	require.NoError(t, movement.OnUpdate(time.Second))

	// Velocity rescaled to magnitude 5 before integrating.
	assert.InDelta(t, 3, velocity.Linear.X, 1e-9)
	assert.InDelta(t, 4, velocity.Linear.Y, 1e-9)
	pos := ecs.GetComponent[*components.Transform](e).Get().Position
	assert.InDelta(t, 3, pos.X, 1e-9)
}

func Test_Movement_SkipsDisabledEntities(t *testing.T) {
	world := newWorld()
	movement := NewMovement(world)
	e := world.Entities.Create("frozen").Get()
	ecs.AssignComponent(e, components.NewTransform(10, 10))
	ecs.AssignComponent(e, components.NewVelocity(100, 100))
	e.SetEnabled(false)

	require.NoError(t, movement.OnUpdate(time.Second))

	pos := ecs.GetComponent[*components.Transform](e).Get().Position
	assert.Equal(t, components.Vector2{X: 10, Y: 10}, pos)
}

func Test_Decay_SafeDeletesExpiredEntities(t *testing.T) {
	world := newWorld()
	decay := NewDecay(world)
	h := world.Entities.Create("ember")
	ecs.AssignComponent(h.Get(), components.NewLifetime(30*time.Millisecond))

	require.NoError(t, decay.OnUpdate(20*time.Millisecond))
	world.Entities.ApplySafeDelete()
	assert.True(t, h.Valid(), "still alive before expiry")

	require.NoError(t, decay.OnUpdate(20*time.Millisecond))
	assert.True(t, h.Valid(), "deletion is deferred until the drain")
	world.Entities.ApplySafeDelete()
	assert.False(t, h.Valid())
	assert.Zero(t, world.Entities.Count())
}

func Test_Spawner_StartCreatesKeptPlayer(t *testing.T) {
	world := newWorld()
	spawner := NewSpawner(world, components.Vector2{X: 50, Y: 50}, 250*time.Millisecond, time.Second)

	require.NoError(t, spawner.OnStart())

	player := world.Entities.ByName("player", true)
	require.True(t, player.Valid())
	assert.True(t, player.Get().Kept())
	assert.True(t, ecs.HasComponent[*components.Transform](player.Get()))
	assert.True(t, ecs.HasComponent[*components.Health](player.Get()))

	// A restart does not duplicate the player.
	require.NoError(t, spawner.OnStart())
	assert.Len(t, world.Entities.AllByName("player", false), 1)
}

func Test_Spawner_EmitsOnInterval(t *testing.T) {
	world := newWorld()
	spawner := NewSpawner(world, components.Vector2{}, 250*time.Millisecond, time.Second)

	require.NoError(t, spawner.OnUpdate(100*time.Millisecond))
	assert.Zero(t, spawner.Spawned())

	require.NoError(t, spawner.OnUpdate(500*time.Millisecond))
	assert.EqualValues(t, 2, spawner.Spawned())
	assert.Len(t, world.Entities.AllByName("mote", true), 2)

	// Motes carry everything the movement and decay systems need.
	mote := world.Entities.ByName("mote", true).Get()
	assert.True(t, mote.HasComponents(
		ecs.KeyOf[*components.Transform](),
		ecs.KeyOf[*components.Velocity](),
		ecs.KeyOf[*components.Lifetime](),
	))
}

func Test_Spawner_StopResetsAccumulator(t *testing.T) {
	world := newWorld()
	spawner := NewSpawner(world, components.Vector2{}, 250*time.Millisecond, time.Second)
	require.NoError(t, spawner.OnUpdate(200*time.Millisecond))

	require.NoError(t, spawner.OnStop())
	require.NoError(t, spawner.OnUpdate(100*time.Millisecond))

	assert.Zero(t, spawner.Spawned(), "the partial interval does not carry across a stop")
}

func Test_Systems_RunUnderTheScheduler(t *testing.T) {
	world := newWorld()
	movement := NewMovement(world)
	require.NoError(t, ecs.AddSystem(world.Systems, movement))
	require.NoError(t, ecs.AddSystem(world.Systems, NewDecay(world)))
	require.NoError(t, ecs.StartSystem[*Movement](world.Systems))
	require.NoError(t, ecs.StartSystem[*Decay](world.Systems))

	world.Tick() // awake
	world.Tick() // start
	world.Tick() // update

	state, err := ecs.StateOf[*Movement](world.Systems)
	require.NoError(t, err)
	assert.Equal(t, ecs.StateRunning, state)
}
