package ecs

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewWorld_WiresManagers(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultWorldConfig()
	cfg.Clock = clock
	cfg.TimeScale = 3.0

	w := NewWorld(cfg)

	require.NotNil(t, w.Events)
	require.NotNil(t, w.Entities)
	require.NotNil(t, w.Systems)
	assert.Equal(t, 3.0, w.Systems.TimeScale())
	assert.Nil(t, w.Metrics())

	// Entities created through the world publish on the world's bus.
	created := 0
	AddListener(w.Events, func(EntityCreated) { created++ })
	w.Entities.Create("probe")
	assert.Equal(t, 1, created)
}

func Test_NewWorld_ZeroTimeScaleMeansOne(t *testing.T) {
	w := NewWorld(WorldConfig{})

	assert.Equal(t, 1.0, w.Systems.TimeScale())
}

func Test_World_TickDrivesSystems(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultWorldConfig()
	cfg.Clock = clock
	w := NewWorld(cfg)
	sys := &recorderSystem{}
	require.NoError(t, AddSystem(w.Systems, sys))
	require.NoError(t, StartSystem[*recorderSystem](w.Systems))

	w.Tick()
	w.Tick()
	clock.advance(5 * time.Millisecond)
	w.Tick()

	assert.Equal(t, []string{"awake", "start", "update"}, sys.calls)
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, sys.dts)
}

func Test_World_Close(t *testing.T) {
	cfg := DefaultWorldConfig()
	cfg.Clock = newFakeClock()
	w := NewWorld(cfg)
	sys := &recorderSystem{}
	require.NoError(t, AddSystem(w.Systems, sys))
	require.NoError(t, StartSystem[*recorderSystem](w.Systems))
	w.Tick()
	w.Tick()
	h := w.Entities.Create("resident")

	w.Close()

	assert.Equal(t, []string{"awake", "start", "stop", "teardown"}, sys.calls)
	assert.Zero(t, w.Entities.Count())
	assert.False(t, h.Valid(), "handles invalidate normally on world close")
}

func Test_World_MetricsEnabled(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	cfg := DefaultWorldConfig()
	cfg.Clock = newFakeClock()
	cfg.EnableMetrics = true
	cfg.MetricsRegisterer = reg

	w := NewWorld(cfg)

	assert.NotNil(t, w.Metrics())
}

func Test_Default_ReturnsSameInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}
