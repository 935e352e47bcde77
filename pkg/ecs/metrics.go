package ecs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var systemStates = []SystemState{
	StateNotStarted, StateAwaking, StateStarting, StateRunning,
	StateStopping, StateStopped, StateTearingDown,
}

// Metrics is a prometheus.Collector exposing the world's live gauges
// (entities, event listeners, systems by state), the tick processing
// duration, and a counter of captured lifecycle errors by phase.
//
// Metrics collection is entirely optional: when EnableMetrics is off, no
// collector exists and the managers run without instrumentation hooks.
type Metrics struct {
	world *World

	entitiesDesc  *prometheus.Desc
	listenersDesc *prometheus.Desc
	systemsDesc   *prometheus.Desc

	tickDuration   prometheus.Histogram
	callbackErrors *prometheus.CounterVec
}

// NewMetrics builds the collector for w, hooks it into the system
// manager, and registers it with reg (nil skips registration).
func NewMetrics(reg prometheus.Registerer, w *World) (*Metrics, error) {
	m := &Metrics{
		world: w,
		entitiesDesc: prometheus.NewDesc(
			"veldt_entities",
			"Number of live entities.",
			nil, nil,
		),
		listenersDesc: prometheus.NewDesc(
			"veldt_event_listeners",
			"Number of live event listener registrations.",
			nil, nil,
		),
		systemsDesc: prometheus.NewDesc(
			"veldt_systems",
			"Number of registered systems by lifecycle state.",
			[]string{"state"}, nil,
		),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "veldt_tick_duration_seconds",
			Help:    "Processing time of one tick over all systems.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		callbackErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "veldt_system_errors_total",
			Help: "Lifecycle callback failures captured by the tick loop.",
		}, []string{"phase"}),
	}

	w.Systems.AddTickObserver(func(d time.Duration) {
		m.tickDuration.Observe(d.Seconds())
	})
	w.Systems.AddErrorSink(func(report ErrorReport) {
		m.callbackErrors.WithLabelValues(report.Phase.String()).Inc()
	})

	if reg != nil {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.entitiesDesc
	ch <- m.listenersDesc
	ch <- m.systemsDesc
	m.tickDuration.Describe(ch)
	m.callbackErrors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		m.entitiesDesc, prometheus.GaugeValue, float64(m.world.Entities.Count()))
	ch <- prometheus.MustNewConstMetric(
		m.listenersDesc, prometheus.GaugeValue, float64(m.world.Events.ListenerCount()))
	for _, state := range systemStates {
		ch <- prometheus.MustNewConstMetric(
			m.systemsDesc, prometheus.GaugeValue,
			float64(m.world.Systems.CountInState(state)), state.String())
	}
	m.tickDuration.Collect(ch)
	m.callbackErrors.Collect(ch)
}
