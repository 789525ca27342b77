package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusdash/internal/core/clock"
	"focusdash/internal/core/model"
	"focusdash/internal/core/session"
)

type recordingNotifier struct {
	ended []model.Phase
}

func (notifier *recordingNotifier) OnPhaseComplete(ended model.Phase) {
	notifier.ended = append(notifier.ended, ended)
}

type recordingSaver struct {
	snapshots []model.Snapshot
}

func (saver *recordingSaver) Save(snapshot model.Snapshot) {
	saver.snapshots = append(saver.snapshots, snapshot)
}

func (saver *recordingSaver) last(t *testing.T) model.Snapshot {
	t.Helper()
	require.NotEmpty(t, saver.snapshots)
	return saver.snapshots[len(saver.snapshots)-1]
}

type fixture struct {
	engine   *Engine
	tracker  *session.Tracker
	notifier *recordingNotifier
	saver    *recordingSaver
}

var testDay = time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)

func classicSettings() model.Settings {
	return model.Settings{
		WorkDuration:       1500 * time.Second,
		ShortBreakDuration: 300 * time.Second,
		LongBreakDuration:  900 * time.Second,
		LongBreakInterval:  4,
	}
}

func newFixture(settings model.Settings, state model.TimerState) fixture {
	tracker := session.NewTracker(model.SessionStats{})
	notifier := &recordingNotifier{}
	saver := &recordingSaver{}
	engine := New(settings, state, tracker, Options{
		Notifier: notifier,
		Saver:    saver,
		Clock:    clock.Fixed(testDay),
	})
	return fixture{engine: engine, tracker: tracker, notifier: notifier, saver: saver}
}

func runningWork(settings model.Settings) model.TimerState {
	state := model.NewTimerState(settings)
	state.Running = true
	return state
}

func tickN(engine *Engine, n int) {
	for i := 0; i < n; i++ {
		engine.Tick()
	}
}

func TestReset_RestoresFullDuration(t *testing.T) {
	for _, phase := range model.Phases() {
		t.Run(string(phase), func(t *testing.T) {
			settings := classicSettings()
			f := newFixture(settings, model.TimerState{Phase: phase, RemainingSeconds: 17, Running: true})

			f.engine.Reset()

			state := f.engine.State()
			assert.Equal(t, settings.Seconds(phase), state.RemainingSeconds)
			assert.False(t, state.Running)
			assert.Equal(t, phase, state.Phase)
			assert.Zero(t, f.engine.Progress())
		})
	}
}

func TestReset_KeepsCounters(t *testing.T) {
	f := newFixture(classicSettings(), model.TimerState{Phase: model.PhaseWork, RemainingSeconds: 10, CompletedWorkPhases: 3})

	f.engine.Reset()

	assert.Equal(t, 3, f.engine.State().CompletedWorkPhases)
}

func TestTick_FullWorkPhaseCompletesOnce(t *testing.T) {
	settings := classicSettings()
	settings.AutoStartBreaks = true
	f := newFixture(settings, runningWork(settings))

	tickN(f.engine, 1499)
	assert.Equal(t, 1, f.engine.State().RemainingSeconds)
	assert.Empty(t, f.notifier.ended)

	f.engine.Tick()

	state := f.engine.State()
	assert.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Equal(t, 300, state.RemainingSeconds)
	assert.True(t, state.Running)
	assert.Equal(t, 1, state.CompletedWorkPhases)
	assert.Equal(t, []model.Phase{model.PhaseWork}, f.notifier.ended)

	stats := f.engine.Stats()
	assert.Equal(t, 1, stats.CompletedPomodoros)
	assert.Equal(t, 1500, stats.TotalFocusSeconds)
	assert.Equal(t, 1, stats.CurrentStreakDays)

	saved := f.saver.last(t)
	assert.Equal(t, state, saved.Timer)
	assert.Equal(t, stats, saved.Stats)
}

func TestTick_AutoStartBreaksDisabled(t *testing.T) {
	settings := classicSettings()
	settings.AutoStartBreaks = false
	f := newFixture(settings, runningWork(settings))

	tickN(f.engine, 1500)

	state := f.engine.State()
	assert.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Equal(t, 300, state.RemainingSeconds)
	assert.False(t, state.Running)

	tickN(f.engine, 50)
	assert.Equal(t, 300, f.engine.State().RemainingSeconds)
}

func TestLongBreakInterval_ModulusCycle(t *testing.T) {
	settings := classicSettings()
	settings.AutoStartBreaks = true
	settings.AutoStartWork = true
	f := newFixture(settings, runningWork(settings))

	var breaks []model.Phase
	for i := 0; i < 9; i++ {
		require.Equal(t, model.PhaseWork, f.engine.State().Phase)
		f.engine.Skip()
		breaks = append(breaks, f.engine.State().Phase)
		f.engine.Skip()
	}

	assert.Equal(t, []model.Phase{
		model.PhaseShortBreak,
		model.PhaseShortBreak,
		model.PhaseShortBreak,
		model.PhaseLongBreak,
		model.PhaseShortBreak,
		model.PhaseShortBreak,
		model.PhaseShortBreak,
		model.PhaseLongBreak,
		model.PhaseShortBreak,
	}, breaks)
	assert.Equal(t, 9, f.engine.State().CompletedWorkPhases)
	assert.Equal(t, 9, f.engine.Stats().CompletedPomodoros)
}

func TestSkip_WorkCountsAsCompleted(t *testing.T) {
	settings := classicSettings()
	f := newFixture(settings, model.TimerState{Phase: model.PhaseWork, RemainingSeconds: 1000, Running: true})

	f.engine.Skip()

	state := f.engine.State()
	assert.Equal(t, 1, state.CompletedWorkPhases)
	assert.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Equal(t, 300, state.RemainingSeconds)
	assert.Equal(t, 1, f.engine.Stats().CompletedPomodoros)
	assert.Equal(t, 1500, f.engine.Stats().TotalFocusSeconds)
	assert.Equal(t, []model.Phase{model.PhaseWork}, f.notifier.ended)
}

func TestSkip_BreakReturnsToWork(t *testing.T) {
	settings := classicSettings()
	settings.AutoStartWork = true
	f := newFixture(settings, model.TimerState{Phase: model.PhaseLongBreak, RemainingSeconds: 600, CompletedWorkPhases: 4})

	f.engine.Skip()

	state := f.engine.State()
	assert.Equal(t, model.PhaseWork, state.Phase)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.True(t, state.Running)
	assert.Equal(t, 4, state.CompletedWorkPhases)
	assert.Equal(t, 900, f.engine.Stats().TotalBreakSeconds)
	assert.Zero(t, f.engine.Stats().CompletedPomodoros)
}

func TestPause_FreezesCountdown(t *testing.T) {
	settings := classicSettings()
	f := newFixture(settings, runningWork(settings))
	tickN(f.engine, 10)

	f.engine.Pause()
	f.engine.Pause()
	tickN(f.engine, 500)

	state := f.engine.State()
	assert.Equal(t, 1490, state.RemainingSeconds)
	assert.False(t, state.Running)
}

func TestStart_NoOpWhenAlreadyRunningOrExpired(t *testing.T) {
	settings := classicSettings()
	f := newFixture(settings, runningWork(settings))
	saves := len(f.saver.snapshots)

	f.engine.Start()
	assert.Len(t, f.saver.snapshots, saves)

	expired := newFixture(settings, model.TimerState{Phase: model.PhaseShortBreak, RemainingSeconds: 0})
	expired.engine.Start()
	assert.False(t, expired.engine.State().Running)
}

func TestStart_ResumesPausedCountdown(t *testing.T) {
	settings := classicSettings()
	f := newFixture(settings, model.NewTimerState(settings))

	f.engine.Start()
	tickN(f.engine, 3)

	state := f.engine.State()
	assert.True(t, state.Running)
	assert.Equal(t, 1497, state.RemainingSeconds)
	assert.True(t, f.saver.last(t).Timer.Running)
}

func TestProgress(t *testing.T) {
	settings := classicSettings()
	f := newFixture(settings, runningWork(settings))
	assert.Zero(t, f.engine.Progress())

	tickN(f.engine, 750)
	assert.InDelta(t, 0.5, f.engine.Progress(), 1e-9)

	tickN(f.engine, 749)
	assert.InDelta(t, 1499.0/1500.0, f.engine.Progress(), 1e-9)
	assert.LessOrEqual(t, f.engine.Progress(), 1.0)
}

func TestProgress_Bounds(t *testing.T) {
	settings := classicSettings()

	assert.Equal(t, 0.0, Progress(settings, model.TimerState{Phase: model.PhaseWork, RemainingSeconds: 5000}))
	assert.Equal(t, 1.0, Progress(settings, model.TimerState{Phase: model.PhaseWork, RemainingSeconds: -3}))

	settings.WorkDuration = 0
	assert.Equal(t, 1.0, Progress(settings, model.TimerState{Phase: model.PhaseWork}))
}

func TestNonPositiveDuration_CompletesOnNextTick(t *testing.T) {
	settings := classicSettings()
	settings.ShortBreakDuration = 0
	settings.AutoStartBreaks = true
	f := newFixture(settings, runningWork(settings))

	f.engine.Skip()
	state := f.engine.State()
	require.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Zero(t, state.RemainingSeconds)
	assert.True(t, state.Running)

	f.engine.Tick()

	assert.Equal(t, model.PhaseWork, f.engine.State().Phase)
	assert.Equal(t, []model.Phase{model.PhaseWork, model.PhaseShortBreak}, f.notifier.ended)
}

func TestNonPositiveDuration_PausedWaitsForSkip(t *testing.T) {
	settings := classicSettings()
	settings.ShortBreakDuration = 0
	settings.AutoStartBreaks = false
	f := newFixture(settings, runningWork(settings))

	f.engine.Skip()
	f.engine.Start()
	f.engine.Tick()

	state := f.engine.State()
	assert.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Zero(t, state.RemainingSeconds)
	assert.False(t, state.Running)

	f.engine.Skip()
	assert.Equal(t, model.PhaseWork, f.engine.State().Phase)
}

func TestZeroInterval_TreatedAsOne(t *testing.T) {
	settings := classicSettings()
	settings.LongBreakInterval = 0
	f := newFixture(settings, runningWork(settings))

	f.engine.Skip()

	assert.Equal(t, model.PhaseLongBreak, f.engine.State().Phase)
}

func TestTick_ClassicScheduleFirstPomodoro(t *testing.T) {
	settings := classicSettings()
	settings.AutoStartBreaks = true
	f := newFixture(settings, model.TimerState{Phase: model.PhaseWork, RemainingSeconds: 1500, Running: true})

	tickN(f.engine, 1500)

	assert.Equal(t, model.TimerState{
		Phase:               model.PhaseShortBreak,
		RemainingSeconds:    300,
		Running:             true,
		CompletedWorkPhases: 1,
	}, f.engine.State())
	assert.Equal(t, 1, f.engine.Stats().CompletedPomodoros)
}

func TestUpdateSettings(t *testing.T) {
	settings := classicSettings()

	t.Run("untouched countdown adopts new duration", func(t *testing.T) {
		f := newFixture(settings, model.NewTimerState(settings))
		updated := settings
		updated.WorkDuration = 50 * time.Minute

		f.engine.UpdateSettings(updated)

		assert.Equal(t, 3000, f.engine.State().RemainingSeconds)
		assert.Equal(t, updated, f.saver.last(t).Settings)
	})

	t.Run("partial countdown is clamped", func(t *testing.T) {
		f := newFixture(settings, model.TimerState{Phase: model.PhaseWork, RemainingSeconds: 1200})
		updated := settings
		updated.WorkDuration = 10 * time.Minute

		f.engine.UpdateSettings(updated)

		assert.Equal(t, 600, f.engine.State().RemainingSeconds)
	})

	t.Run("partial countdown within new duration is kept", func(t *testing.T) {
		f := newFixture(settings, model.TimerState{Phase: model.PhaseWork, RemainingSeconds: 1200})
		updated := settings
		updated.WorkDuration = 40 * time.Minute

		f.engine.UpdateSettings(updated)

		assert.Equal(t, 1200, f.engine.State().RemainingSeconds)
	})
}

func TestNew_NormalizesRestoredState(t *testing.T) {
	settings := classicSettings()
	f := newFixture(settings, model.TimerState{Phase: "bogus", RemainingSeconds: 99999, CompletedWorkPhases: -2})

	state := f.engine.State()
	assert.Equal(t, model.PhaseWork, state.Phase)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.Zero(t, state.CompletedWorkPhases)
}

func TestOptions_ExtendAndOnComplete(t *testing.T) {
	settings := classicSettings()
	saver := &recordingSaver{}
	var order []string
	engine := New(settings, runningWork(settings), session.NewTracker(model.SessionStats{}), Options{
		Saver: saver,
		Clock: clock.Fixed(testDay),
		Extend: func(snapshot *model.Snapshot) {
			snapshot.FocusTaskID = "task-1"
		},
		OnComplete: func(ended model.Phase) {
			order = append(order, string(ended))
		},
	})

	engine.Skip()

	assert.Equal(t, []string{"work"}, order)
	assert.Equal(t, "task-1", saver.last(t).FocusTaskID)
}

func TestNextPhase(t *testing.T) {
	assert.Equal(t, model.PhaseWork, NextPhase(model.PhaseShortBreak, 3, 4))
	assert.Equal(t, model.PhaseWork, NextPhase(model.PhaseLongBreak, 4, 4))
	assert.Equal(t, model.PhaseShortBreak, NextPhase(model.PhaseWork, 3, 4))
	assert.Equal(t, model.PhaseLongBreak, NextPhase(model.PhaseWork, 8, 4))
	assert.Equal(t, model.PhaseLongBreak, NextPhase(model.PhaseWork, 1, 1))
}
