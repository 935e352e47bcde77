// Package demo hosts an ebiten game whose loop drives a veldt world: one
// world tick plus a safe-delete drain per frame, and a draw pass over
// every Transform-bearing entity.
package demo

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"veldt/internal/demo/components"
	"veldt/internal/demo/systems"
	"veldt/pkg/ecs"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

// Game implements ebiten.Game over a veldt world.
type Game struct {
	world *ecs.World
}

// NewGame registers and starts the demo systems on world.
func NewGame(world *ecs.World) (*Game, error) {
	movement := systems.NewMovement(world)
	movement.SetBounds(0, 0, screenWidth, screenHeight)
	if err := ecs.AddSystem(world.Systems, movement); err != nil {
		return nil, err
	}
	if err := ecs.AddSystem(world.Systems, systems.NewDecay(world)); err != nil {
		return nil, err
	}
	center := components.Vector2{X: screenWidth / 2, Y: screenHeight / 2}
	spawner := systems.NewSpawner(world, center, 250*time.Millisecond, 5*time.Second)
	if err := ecs.AddSystem(world.Systems, spawner); err != nil {
		return nil, err
	}

	if err := ecs.StartSystem[*systems.Movement](world.Systems); err != nil {
		return nil, err
	}
	if err := ecs.StartSystem[*systems.Decay](world.Systems); err != nil {
		return nil, err
	}
	if err := ecs.StartSystem[*systems.Spawner](world.Systems); err != nil {
		return nil, err
	}

	return &Game{world: world}, nil
}

// Update advances the world by one tick and drains deferred deletions.
func (g *Game) Update() error {
	g.world.Tick()
	g.world.Entities.ApplySafeDelete()
	return nil
}

// Draw renders every enabled entity that has a position.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 24, B: 32, A: 255})
	ecs.ForEachWith(g.world.Entities, func(
		e *ecs.EntityHandle,
		th *ecs.ComponentHandle[*components.Transform],
	) {
		pos := th.Get().Position
		tint := color.RGBA{R: 220, G: 220, B: 120, A: 255}
		if e.Get().Name() == "player" {
			tint = color.RGBA{R: 120, G: 200, B: 255, A: 255}
		}
		vector.DrawFilledRect(screen, float32(pos.X)-2, float32(pos.Y)-2, 4, 4, tint, false)
		e.Release()
		th.Release()
	}, true)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("entities: %d", g.world.Entities.Count()))
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

// Run opens the window and hands the loop to ebiten.
func (g *Game) Run() error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("veldt demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
