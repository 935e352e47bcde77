package ecs

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type systemEntry struct {
	state  SystemState
	system System
}

// SystemManager exclusively owns all registered systems and advances each
// through its state machine once per Tick, in registration order. Failed
// callbacks — returned errors and recovered panics alike — are buffered as
// ErrorReports and drained by Errors.
type SystemManager struct {
	clock Clock

	systems map[TypeKey]*systemEntry
	order   []TypeKey

	timeScale float64
	last      time.Time

	errors     []ErrorReport
	errorSinks []func(ErrorReport)

	tickObservers []func(time.Duration)

	log zerolog.Logger
}

// NewSystemManager creates an empty registry. A nil clock selects the
// system clock. The time scale starts at 1.
func NewSystemManager(clock Clock) *SystemManager {
	if clock == nil {
		clock = SystemClock()
	}
	return &SystemManager{
		clock:     clock,
		systems:   make(map[TypeKey]*systemEntry),
		timeScale: 1,
		last:      clock.Now(),
		log:       zerolog.Nop(),
	}
}

// SetLogger installs a logger for transition and error diagnostics.
func (m *SystemManager) SetLogger(log zerolog.Logger) {
	m.log = log
}

// TimeScale returns the factor applied to tick deltas.
func (m *SystemManager) TimeScale() float64 {
	return m.timeScale
}

// SetTimeScale sets the factor applied to tick deltas. Useful for slow
// motion, pause and fast-forward.
func (m *SystemManager) SetTimeScale(scale float64) {
	m.timeScale = scale
}

// AddErrorSink registers a callback invoked for every captured
// ErrorReport, in addition to the buffer drained by Errors.
func (m *SystemManager) AddErrorSink(sink func(ErrorReport)) {
	m.errorSinks = append(m.errorSinks, sink)
}

// AddTickObserver registers a callback invoked after each Tick with the
// processing duration of that tick.
func (m *SystemManager) AddTickObserver(observer func(time.Duration)) {
	m.tickObservers = append(m.tickObservers, observer)
}

// Count returns the number of registered systems.
func (m *SystemManager) Count() int {
	return len(m.systems)
}

// CountInState returns the number of registered systems currently in
// state.
func (m *SystemManager) CountInState(state SystemState) int {
	n := 0
	for _, entry := range m.systems {
		if entry.state == state {
			n++
		}
	}
	return n
}

// ==============================================
// Registration and Transitions
// ==============================================

// AddSystem registers sys in state not-started. Fails with
// SYSTEM_ALREADY_EXISTING if a system of type S is already registered.
func AddSystem[S System](m *SystemManager, sys S) error {
	key := KeyOf[S]()
	if _, exists := m.systems[key]; exists {
		return NewSystemError(ErrSystemAlreadyExisting, "system already existing", key)
	}
	m.systems[key] = &systemEntry{state: StateNotStarted, system: sys}
	m.order = append(m.order, key)
	m.log.Debug().Str("system", key.String()).Msg("system added")
	return nil
}

// StartSystem transitions a not-started system to awaking, or a stopped
// system to starting. Any other state fails with SYSTEM_LOGICAL.
func StartSystem[S System](m *SystemManager) error {
	key := KeyOf[S]()
	entry, ok := m.systems[key]
	if !ok {
		return NewSystemError(ErrSystemNotFound, "system not found", key)
	}
	switch entry.state {
	case StateNotStarted:
		entry.state = StateAwaking
	case StateStopped:
		entry.state = StateStarting
	default:
		return NewSystemError(ErrSystemLogical,
			fmt.Sprintf("can not start a %s system", entry.state), key)
	}
	return nil
}

// StopSystem transitions a running system to stopping. Any other state
// fails with SYSTEM_LOGICAL.
func StopSystem[S System](m *SystemManager) error {
	key := KeyOf[S]()
	entry, ok := m.systems[key]
	if !ok {
		return NewSystemError(ErrSystemNotFound, "system not found", key)
	}
	if entry.state != StateRunning {
		return NewSystemError(ErrSystemLogical,
			fmt.Sprintf("can not stop a %s system", entry.state), key)
	}
	entry.state = StateStopping
	return nil
}

// RemoveSystem schedules a stopped system for teardown on the next tick.
// A not-started system is removed immediately. Any other state fails with
// SYSTEM_LOGICAL.
func RemoveSystem[S System](m *SystemManager) error {
	key := KeyOf[S]()
	entry, ok := m.systems[key]
	if !ok {
		return NewSystemError(ErrSystemNotFound, "system not found", key)
	}
	switch entry.state {
	case StateNotStarted:
		m.erase(key)
	case StateStopped:
		entry.state = StateTearingDown
	default:
		return NewSystemError(ErrSystemLogical,
			fmt.Sprintf("can not tear down a %s system", entry.state), key)
	}
	return nil
}

// StateOf returns the current state of the system of type S.
func StateOf[S System](m *SystemManager) (SystemState, error) {
	key := KeyOf[S]()
	entry, ok := m.systems[key]
	if !ok {
		return StateNotStarted, NewSystemError(ErrSystemNotFound, "system not found", key)
	}
	return entry.state, nil
}

// GetSystem returns the registered system of type S, for configuration.
// Do not retain the returned system past its removal.
func GetSystem[S System](m *SystemManager) (S, error) {
	key := KeyOf[S]()
	entry, ok := m.systems[key]
	if !ok {
		var zero S
		return zero, NewSystemError(ErrSystemNotFound, "system not found", key)
	}
	return entry.system.(S), nil
}

func (m *SystemManager) erase(key TypeKey) {
	delete(m.systems, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// ==============================================
// Tick
// ==============================================

// Tick advances every registered system by at most one state transition.
// Call it once per iteration of the host's main loop.
//
// The delta passed to running systems is the monotonic time elapsed since
// the previous Tick, multiplied by the time scale.
func (m *SystemManager) Tick() {
	now := m.clock.Now()
	dt := time.Duration(float64(now.Sub(m.last)) * m.timeScale)

	var toErase []TypeKey
	for _, key := range m.snapshotOrder() {
		entry, ok := m.systems[key]
		if !ok {
			continue
		}
		switch entry.state {
		case StateNotStarted, StateStopped:
			// idle
		case StateAwaking:
			if err := m.invoke(entry.system, PhaseAwake, dt); err != nil {
				m.addError(key, entry.system, PhaseAwake, err)
				entry.state = StateNotStarted
				continue
			}
			entry.state = StateStarting
		case StateStarting:
			if err := m.invoke(entry.system, PhaseStart, dt); err != nil {
				m.addError(key, entry.system, PhaseStart, err)
				entry.state = StateStopped
				continue
			}
			entry.state = StateRunning
		case StateRunning:
			if err := m.invoke(entry.system, PhaseUpdate, dt); err != nil {
				m.addError(key, entry.system, PhaseUpdate, err)
			}
		case StateStopping:
			if err := m.invoke(entry.system, PhaseStop, dt); err != nil {
				m.addError(key, entry.system, PhaseStop, err)
			}
			entry.state = StateStopped
		case StateTearingDown:
			if err := m.invoke(entry.system, PhaseTearDown, dt); err != nil {
				m.addError(key, entry.system, PhaseTearDown, err)
			}
			toErase = append(toErase, key)
		}
	}
	for _, key := range toErase {
		m.erase(key)
	}
	m.last = now

	if len(m.tickObservers) > 0 {
		elapsed := m.clock.Now().Sub(now)
		for _, observe := range m.tickObservers {
			observe(elapsed)
		}
	}
}

func (m *SystemManager) snapshotOrder() []TypeKey {
	snapshot := make([]TypeKey, len(m.order))
	copy(snapshot, m.order)
	return snapshot
}

// invoke runs one lifecycle callback, converting a panic into an error so
// a misbehaving system cannot terminate the tick.
func (m *SystemManager) invoke(sys System, phase SystemPhase, dt time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewECSError(ErrSystemPanic, fmt.Sprint(r))
		}
	}()
	switch phase {
	case PhaseAwake:
		return sys.OnAwake()
	case PhaseStart:
		return sys.OnStart()
	case PhaseUpdate:
		return sys.OnUpdate(dt)
	case PhaseStop:
		return sys.OnStop()
	case PhaseTearDown:
		return sys.OnTearDown()
	}
	return nil
}

func (m *SystemManager) addError(key TypeKey, sys System, phase SystemPhase, err error) {
	report := ErrorReport{System: sys, Key: key, Phase: phase, Err: err}
	m.errors = append(m.errors, report)
	m.log.Warn().Str("system", key.String()).Stringer("phase", phase).Err(err).Msg("system callback failed")
	for _, sink := range m.errorSinks {
		sink(report)
	}
}

// Errors returns the error reports captured since the last call and clears
// the buffer.
func (m *SystemManager) Errors() []ErrorReport {
	reports := m.errors
	m.errors = nil
	return reports
}

// ==============================================
// Shutdown
// ==============================================

// Close runs the state-appropriate remainder of the lifecycle for every
// registered system — e.g. a running system receives OnStop then
// OnTearDown, an awaking one the full OnAwake/OnStart/OnStop/OnTearDown
// sequence — then discards it. Failures are swallowed.
func (m *SystemManager) Close() {
	for _, key := range m.order {
		entry := m.systems[key]
		switch entry.state {
		case StateNotStarted:
			// never awoke; nothing to unwind
		case StateAwaking:
			m.shutdown(entry.system, PhaseAwake, PhaseStart, PhaseStop, PhaseTearDown)
		case StateStarting:
			m.shutdown(entry.system, PhaseStart, PhaseStop, PhaseTearDown)
		case StateRunning, StateStopping:
			m.shutdown(entry.system, PhaseStop, PhaseTearDown)
		case StateStopped, StateTearingDown:
			m.shutdown(entry.system, PhaseTearDown)
		}
	}
	m.systems = make(map[TypeKey]*systemEntry)
	m.order = nil
}

func (m *SystemManager) shutdown(sys System, phases ...SystemPhase) {
	for _, phase := range phases {
		if err := m.invoke(sys, phase, 0); err != nil {
			m.log.Warn().Stringer("phase", phase).Err(err).Msg("error during system shutdown")
		}
	}
}
