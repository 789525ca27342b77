// Package timekeeper drives the phase engine from a ticker and serializes
// every command against it.
package timekeeper

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"focusdash/internal/core/clock"
	"focusdash/internal/core/engine"
	"focusdash/internal/core/model"
	"focusdash/internal/core/session"
	"focusdash/internal/core/tasks"
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Clock        clock.Clock
	Logger       zerolog.Logger
	Notifier     engine.Notifier
	// Saver is called with the lock held so snapshots arrive in commit order.
	// It must not block or call back into the TimeKeeper.
	Saver engine.Saver
}

// TimeKeeper owns the engine, the session tracker and the task board and is
// safe for concurrent use.
type TimeKeeper struct {
	mu      sync.Mutex
	options Config
	engine  *engine.Engine
	board   *tasks.Board
	queue   dispatchQueue
	events  []chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stopped bool
}

// New restores a TimeKeeper from a snapshot. A restored countdown is always paused.
func New(snapshot model.Snapshot, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = clock.RealClock{}
	}
	options.Logger = options.Logger.With().Str("component", "timekeeper").Logger()

	keeper := &TimeKeeper{
		options: options,
		board:   tasks.NewBoard(snapshot.Tasks, snapshot.FocusTaskID, options.Clock),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	timer := snapshot.Timer
	timer.Running = false
	keeper.engine = engine.New(snapshot.Settings, timer, session.NewTracker(snapshot.Stats), engine.Options{
		Notifier:   &keeper.queue,
		Saver:      &keeper.queue,
		Clock:      options.Clock,
		Extend:     keeper.board.Apply,
		OnComplete: keeper.creditFocusedLocked,
	})
	return keeper
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	if keeper.stopped {
		close(ch)
	} else {
		keeper.events = append(keeper.events, ch)
	}
	keeper.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	if keeper.running || keeper.stopped {
		keeper.mu.Unlock()
		return
	}
	keeper.running = true
	keeper.emitLocked(EventStateChange, "")
	keeper.mu.Unlock()

	go keeper.run()
}

// Stop terminates the ticking loop, saves the final state and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if keeper.stopped {
		keeper.mu.Unlock()
		return
	}
	keeper.stopped = true
	wasRunning := keeper.running
	keeper.running = false
	close(keeper.stopCh)
	keeper.mu.Unlock()

	if wasRunning {
		<-keeper.doneCh
	}

	keeper.mu.Lock()
	keeper.saveLocked(keeper.engine.Snapshot(), true)
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns a copy of the full state.
func (keeper *TimeKeeper) Snapshot() model.Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.engine.Snapshot()
}

// Progress returns the elapsed fraction of the current phase.
func (keeper *TimeKeeper) Progress() float64 {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.engine.Progress()
}

// StartTimer resumes the countdown.
func (keeper *TimeKeeper) StartTimer() {
	keeper.apply(EventStateChange, keeper.engine.Start)
}

// Pause freezes the countdown.
func (keeper *TimeKeeper) Pause() {
	keeper.apply(EventStateChange, keeper.engine.Pause)
}

// Toggle pauses a running countdown and resumes a paused one.
func (keeper *TimeKeeper) Toggle() {
	keeper.apply(EventStateChange, func() {
		if keeper.engine.State().Running {
			keeper.engine.Pause()
			return
		}
		keeper.engine.Start()
	})
}

// Reset restarts the current phase, paused.
func (keeper *TimeKeeper) Reset() {
	keeper.apply(EventStateChange, keeper.engine.Reset)
}

// Skip ends the current phase immediately.
func (keeper *TimeKeeper) Skip() {
	keeper.apply(EventStateChange, keeper.engine.Skip)
}

// UpdateSettings replaces the engine settings between ticks.
func (keeper *TimeKeeper) UpdateSettings(settings model.Settings) {
	keeper.apply(EventSettingsChange, func() {
		keeper.engine.UpdateSettings(settings)
	})
}

// FocusTask focuses the open task titled title, creating it if needed.
func (keeper *TimeKeeper) FocusTask(title string) (model.Task, error) {
	var task model.Task
	err := keeper.applyTasks(func() error {
		var err error
		task, err = keeper.board.Focus(title)
		return err
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("focus task: %w", err)
	}
	return task, nil
}

// CompleteFocusTask marks the focused task done and clears the focus.
func (keeper *TimeKeeper) CompleteFocusTask() error {
	err := keeper.applyTasks(func() error {
		task, ok := keeper.board.Focused()
		if !ok {
			return tasks.ErrTaskNotFound
		}
		return keeper.board.SetStatus(task.ID, model.TaskDone)
	})
	if err != nil {
		return fmt.Errorf("complete focus task: %w", err)
	}
	return nil
}

// SetTaskStatus moves a task to another column.
func (keeper *TimeKeeper) SetTaskStatus(id string, status model.TaskStatus) error {
	if err := keeper.applyTasks(func() error {
		return keeper.board.SetStatus(id, status)
	}); err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	return nil
}

// RemoveTask deletes a task, clearing the focus if it pointed at it.
func (keeper *TimeKeeper) RemoveTask(id string) error {
	if err := keeper.applyTasks(func() error {
		return keeper.board.Remove(id)
	}); err != nil {
		return fmt.Errorf("remove task: %w", err)
	}
	return nil
}

// Unfocus clears the focused task without changing its status.
func (keeper *TimeKeeper) Unfocus() {
	_ = keeper.applyTasks(func() error {
		keeper.board.Unfocus()
		return nil
	})
}

func (keeper *TimeKeeper) run() {
	defer close(keeper.doneCh)

	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-keeper.stopCh:
			return
		case <-ticker.C:
			keeper.tick()
		}
	}
}

func (keeper *TimeKeeper) tick() {
	keeper.mu.Lock()
	if keeper.stopped || !keeper.engine.State().Running {
		keeper.mu.Unlock()
		return
	}
	keeper.engine.Tick()
	completed, snapshot, dirty := keeper.queue.drain()
	if len(completed) == 0 {
		keeper.emitLocked(EventProgress, "")
	} else {
		keeper.emitCompletionsLocked(completed, snapshot)
		keeper.emitLocked(EventStateChange, "")
	}
	keeper.saveLocked(snapshot, dirty)
	keeper.mu.Unlock()

	keeper.dispatch(completed)
}

// apply runs fn against the engine under the lock, emits eventType and saves,
// then notifies collected completions once the lock is released.
func (keeper *TimeKeeper) apply(eventType EventType, fn func()) {
	keeper.mu.Lock()
	fn()
	completed, snapshot, dirty := keeper.queue.drain()
	keeper.emitCompletionsLocked(completed, snapshot)
	keeper.emitLocked(eventType, "")
	keeper.saveLocked(snapshot, dirty)
	keeper.mu.Unlock()

	keeper.dispatch(completed)
}

// applyTasks runs a board mutation and saves when it succeeds.
func (keeper *TimeKeeper) applyTasks(fn func() error) error {
	var err error
	keeper.apply(EventTasksChange, func() {
		if err = fn(); err == nil {
			keeper.queue.Save(keeper.engine.Snapshot())
		}
	})
	return err
}

func (keeper *TimeKeeper) saveLocked(snapshot model.Snapshot, dirty bool) {
	if dirty && keeper.options.Saver != nil {
		keeper.options.Saver.Save(snapshot)
	}
}

func (keeper *TimeKeeper) dispatch(completed []model.Phase) {
	for _, ended := range completed {
		keeper.notify(ended)
	}
}

func (keeper *TimeKeeper) notify(ended model.Phase) {
	if keeper.options.Notifier == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			keeper.options.Logger.Error().
				Interface("panic", recovered).
				Str("phase", string(ended)).
				Msg("notifier panicked")
		}
	}()
	keeper.options.Notifier.OnPhaseComplete(ended)
}

func (keeper *TimeKeeper) creditFocusedLocked(ended model.Phase) {
	if ended != model.PhaseWork {
		return
	}
	if keeper.board.CreditFocused() {
		keeper.options.Logger.Debug().Str("task_id", keeper.board.FocusID()).Msg("pomodoro credited to task")
	}
}

func (keeper *TimeKeeper) emitCompletionsLocked(completed []model.Phase, snapshot model.Snapshot) {
	for _, ended := range completed {
		keeper.options.Logger.Info().
			Str("ended", string(ended)).
			Str("next", string(snapshot.Timer.Phase)).
			Int("completed_work_phases", snapshot.Timer.CompletedWorkPhases).
			Msg("phase complete")
		keeper.emitLocked(EventPhaseComplete, ended)
	}
}

func (keeper *TimeKeeper) emitLocked(eventType EventType, phase model.Phase) {
	snapshot := keeper.engine.Snapshot()
	if phase == "" {
		phase = snapshot.Timer.Phase
	}
	event := Event{
		Type:      eventType,
		Phase:     phase,
		Snapshot:  snapshot,
		Remaining: snapshot.Timer.Remaining(),
		Progress:  keeper.engine.Progress(),
		At:        keeper.options.Clock.Now(),
	}
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// dispatchQueue collects engine callbacks made while the lock is held.
type dispatchQueue struct {
	completed []model.Phase
	snapshot  model.Snapshot
	dirty     bool
}

func (queue *dispatchQueue) OnPhaseComplete(ended model.Phase) {
	queue.completed = append(queue.completed, ended)
}

func (queue *dispatchQueue) Save(snapshot model.Snapshot) {
	queue.snapshot = snapshot
	queue.dirty = true
}

func (queue *dispatchQueue) drain() ([]model.Phase, model.Snapshot, bool) {
	completed, snapshot, dirty := queue.completed, queue.snapshot, queue.dirty
	queue.completed = nil
	queue.snapshot = model.Snapshot{}
	queue.dirty = false
	return completed, snapshot, dirty
}
