package ecs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// World bundles the three managers. Pass it (or the managers it exposes)
// to systems explicitly; Default exists as a convenience for applications
// that want a single process-wide instance.
type World struct {
	Events   *EventManager
	Entities *EntityManager
	Systems  *SystemManager

	metrics *Metrics
	log     zerolog.Logger
}

// NewWorld creates a world from cfg. A zero TimeScale is treated as 1.
func NewWorld(cfg WorldConfig) *World {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.TimeScale == 0 {
		cfg.TimeScale = 1
	}

	events := NewEventManager()
	events.SetLogger(logger)
	entities := NewEntityManager(events)
	entities.SetLogger(logger)
	systems := NewSystemManager(cfg.Clock)
	systems.SetLogger(logger)
	systems.SetTimeScale(cfg.TimeScale)

	w := &World{
		Events:   events,
		Entities: entities,
		Systems:  systems,
		log:      logger,
	}

	if cfg.EnableMetrics {
		reg := cfg.MetricsRegisterer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		metrics, err := NewMetrics(reg, w)
		if err != nil {
			logger.Warn().Err(err).Msg("metrics registration failed")
		} else {
			w.metrics = metrics
		}
	}

	return w
}

// Tick advances the system manager once. Call it once per iteration of
// the host's main loop.
func (w *World) Tick() {
	w.Systems.Tick()
}

// Metrics returns the registered collector, or nil when metrics are
// disabled.
func (w *World) Metrics() *Metrics {
	return w.metrics
}

// Close shuts the world down: systems first (running their remaining
// lifecycle), then all entities (firing destruction events normally).
func (w *World) Close() {
	w.Systems.Close()
	w.Entities.Close()
}

var (
	defaultWorld *World
	defaultOnce  sync.Once
)

// Default returns the lazily initialized process-wide world.
func Default() *World {
	defaultOnce.Do(func() {
		defaultWorld = NewWorld(DefaultWorldConfig())
	})
	return defaultWorld
}
