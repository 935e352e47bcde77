package ecs

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingUpdateSystem struct {
	BaseSystem
}

func (s *failingUpdateSystem) OnUpdate(time.Duration) error { return errors.New("boom") }

func metricsWorld(t *testing.T) (*World, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	cfg := DefaultWorldConfig()
	cfg.Clock = newFakeClock()
	cfg.EnableMetrics = true
	cfg.MetricsRegisterer = reg
	w := NewWorld(cfg)
	require.NotNil(t, w.Metrics())
	return w, reg
}

func gatherValues(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName()
			for _, label := range metric.GetLabel() {
				name += "{" + label.GetName() + "=" + label.GetValue() + "}"
			}
			switch {
			case metric.GetGauge() != nil:
				values[name] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[name] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				values[name] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func Test_Metrics_EntityAndListenerGauges(t *testing.T) {
	w, reg := metricsWorld(t)
	w.Entities.Create("a")
	w.Entities.Create("b")

	values := gatherValues(t, reg)

	assert.Equal(t, 2.0, values["veldt_entities"])
	// Each created entity handle holds one listener registration.
	assert.Equal(t, 2.0, values["veldt_event_listeners"])
}

func Test_Metrics_SystemStateGauges(t *testing.T) {
	w, reg := metricsWorld(t)
	require.NoError(t, AddSystem(w.Systems, &idleSystem{}))
	require.NoError(t, StartSystem[*idleSystem](w.Systems))
	w.Tick()
	w.Tick()

	values := gatherValues(t, reg)

	assert.Equal(t, 1.0, values["veldt_systems{state=running}"])
	assert.Equal(t, 0.0, values["veldt_systems{state=not-started}"])
}

func Test_Metrics_TickDurationObserved(t *testing.T) {
	w, reg := metricsWorld(t)

	w.Tick()
	w.Tick()
	w.Tick()

	values := gatherValues(t, reg)
	assert.Equal(t, 3.0, values["veldt_tick_duration_seconds"])
}

func Test_Metrics_ErrorCounter(t *testing.T) {
	w, reg := metricsWorld(t)
	require.NoError(t, AddSystem(w.Systems, &failingUpdateSystem{}))
	require.NoError(t, StartSystem[*failingUpdateSystem](w.Systems))

	w.Tick() // awake
	w.Tick() // start
	w.Tick() // update -> error
	w.Tick() // update -> error

	values := gatherValues(t, reg)
	assert.Equal(t, 2.0, values["veldt_system_errors_total{phase=update}"])
}

func Test_Metrics_RegistrationConflict(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	cfg := DefaultWorldConfig()
	cfg.Clock = newFakeClock()
	w := NewWorld(cfg)
	_, err := NewMetrics(reg, w)
	require.NoError(t, err)

	_, err = NewMetrics(reg, w)

	assert.Error(t, err, "the same registry rejects a duplicate collector")
}
