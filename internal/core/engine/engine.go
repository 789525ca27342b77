// Package engine implements the pomodoro phase state machine.
//
// The engine is synchronous and I/O free. Phase completions and committed
// state changes are reported to a Notifier and a Saver supplied by the caller,
// which decide what (if anything) happens outside the process.
package engine

import (
	"time"

	"focusdash/internal/core/clock"
	"focusdash/internal/core/model"
)

// Notifier consumes phase completion events.
type Notifier interface {
	OnPhaseComplete(ended model.Phase)
}

// Saver receives a snapshot after every committed state change.
type Saver interface {
	Save(snapshot model.Snapshot)
}

// Recorder accumulates statistics for completed phases.
type Recorder interface {
	RecordWorkCompletion(focusSeconds int)
	RecordBreakCompletion(breakSeconds int)
	RecordDailyCheckpoint(today time.Time)
	Stats() model.SessionStats
}

// CompletionHook runs after the recorder when a phase ends, before the
// notifier and saver are called.
type CompletionHook func(ended model.Phase)

// Options wires the engine's collaborators. Nil fields are replaced by no-ops.
type Options struct {
	Notifier Notifier
	Saver    Saver
	Clock    clock.Clock
	// Extend decorates snapshots passed to the Saver with data the engine does not own.
	Extend func(*model.Snapshot)
	// OnComplete runs inside completePhase after statistics are recorded.
	OnComplete CompletionHook
}

// Engine is the sole owner of TimerState. It is not safe for concurrent use.
type Engine struct {
	settings model.Settings
	state    model.TimerState
	recorder Recorder
	options  Options
}

// New creates an engine from settings, a restored timer state and a recorder.
func New(settings model.Settings, state model.TimerState, recorder Recorder, options Options) *Engine {
	if options.Notifier == nil {
		options.Notifier = nopNotifier{}
	}
	if options.Saver == nil {
		options.Saver = nopSaver{}
	}
	if options.Clock == nil {
		options.Clock = clock.RealClock{}
	}

	engine := &Engine{
		settings: settings,
		state:    state,
		recorder: recorder,
		options:  options,
	}
	engine.normalize()
	return engine
}

// State returns a copy of the timer state.
func (engine *Engine) State() model.TimerState {
	return engine.state
}

// Settings returns the active settings.
func (engine *Engine) Settings() model.Settings {
	return engine.settings
}

// Stats returns the recorder's statistics.
func (engine *Engine) Stats() model.SessionStats {
	return engine.recorder.Stats()
}

// Snapshot returns the settings, timer state and statistics as one value.
func (engine *Engine) Snapshot() model.Snapshot {
	snapshot := model.Snapshot{
		Settings: engine.settings,
		Timer:    engine.state,
		Stats:    engine.recorder.Stats(),
	}
	if engine.options.Extend != nil {
		engine.options.Extend(&snapshot)
	}
	return snapshot
}

// Tick advances a running countdown by one second and completes the phase at zero.
// A phase entered paused with a non-positive duration stays at zero until Skip
// or Reset; Tick and Start leave it alone.
func (engine *Engine) Tick() {
	if !engine.state.Running {
		return
	}
	if engine.state.RemainingSeconds > 0 {
		engine.state.RemainingSeconds--
	}
	if engine.state.RemainingSeconds <= 0 {
		engine.completePhase()
	}
}

// Start resumes the countdown. A finished countdown must be skipped or reset first.
func (engine *Engine) Start() {
	if engine.state.Running || engine.state.RemainingSeconds <= 0 {
		return
	}
	engine.state.Running = true
	engine.save()
}

// Pause stops the countdown.
func (engine *Engine) Pause() {
	if !engine.state.Running {
		return
	}
	engine.state.Running = false
	engine.save()
}

// Reset restarts the current phase from its full duration, paused.
func (engine *Engine) Reset() {
	engine.state.RemainingSeconds = engine.settings.Seconds(engine.state.Phase)
	engine.state.Running = false
	engine.save()
}

// Skip ends the current phase immediately, exactly as if it had run out.
func (engine *Engine) Skip() {
	engine.completePhase()
}

// UpdateSettings replaces the settings between ticks.
func (engine *Engine) UpdateSettings(settings model.Settings) {
	previous := engine.settings.Seconds(engine.state.Phase)
	engine.settings = settings

	duration := settings.Seconds(engine.state.Phase)
	if engine.state.RemainingSeconds == previous || engine.state.RemainingSeconds > duration {
		engine.state.RemainingSeconds = duration
	}
	if engine.state.RemainingSeconds == 0 && duration > 0 {
		engine.state.Running = false
	}
	engine.save()
}

// Progress returns the elapsed fraction of the current phase in [0, 1].
func (engine *Engine) Progress() float64 {
	return Progress(engine.settings, engine.state)
}

// Progress returns the elapsed fraction of state's phase in [0, 1].
func Progress(settings model.Settings, state model.TimerState) float64 {
	total := settings.Seconds(state.Phase)
	if total <= 0 {
		return 1
	}
	progress := float64(total-state.RemainingSeconds) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// NextPhase returns the phase that follows ended after completedWorkPhases work phases.
func NextPhase(ended model.Phase, completedWorkPhases, longBreakInterval int) model.Phase {
	if ended.IsBreak() {
		return model.PhaseWork
	}
	if longBreakInterval < 1 {
		longBreakInterval = 1
	}
	if completedWorkPhases > 0 && completedWorkPhases%longBreakInterval == 0 {
		return model.PhaseLongBreak
	}
	return model.PhaseShortBreak
}

func (engine *Engine) completePhase() {
	ended := engine.state.Phase

	if ended == model.PhaseWork {
		engine.state.CompletedWorkPhases++
		engine.recorder.RecordDailyCheckpoint(engine.options.Clock.Now())
		engine.recorder.RecordWorkCompletion(engine.settings.Seconds(model.PhaseWork))
	} else {
		engine.recorder.RecordBreakCompletion(engine.settings.Seconds(ended))
	}

	next := NextPhase(ended, engine.state.CompletedWorkPhases, engine.settings.LongBreakInterval)
	engine.state.Phase = next
	engine.state.RemainingSeconds = engine.settings.Seconds(next)
	engine.state.Running = engine.settings.AutoStart(next)

	if engine.options.OnComplete != nil {
		engine.options.OnComplete(ended)
	}
	engine.options.Notifier.OnPhaseComplete(ended)
	engine.save()
}

// normalize repairs a restored state so the countdown invariants hold.
func (engine *Engine) normalize() {
	if !engine.state.Phase.Valid() {
		engine.state.Phase = model.PhaseWork
	}
	if engine.state.CompletedWorkPhases < 0 {
		engine.state.CompletedWorkPhases = 0
	}
	duration := engine.settings.Seconds(engine.state.Phase)
	if engine.state.RemainingSeconds < 0 || engine.state.RemainingSeconds > duration {
		engine.state.RemainingSeconds = duration
	}
	if engine.state.RemainingSeconds == 0 && duration > 0 {
		engine.state.Running = false
	}
}

func (engine *Engine) save() {
	engine.options.Saver.Save(engine.Snapshot())
}

type nopNotifier struct{}

func (nopNotifier) OnPhaseComplete(model.Phase) {}

type nopSaver struct{}

func (nopSaver) Save(model.Snapshot) {}
