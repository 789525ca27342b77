package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"focusdash/internal/core/model"
	"focusdash/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintStatsWithoutSnapshot(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printStats(&out, model.Snapshot{}, false, time.Now(), newStatsStyles()))
	assert.Contains(t, out.String(), "No saved sessions yet.")
}

func TestPrintStatsListsTasksAndStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local)
	settings := model.DefaultSettings()
	snapshot := model.Snapshot{
		Settings: settings,
		Timer:    model.TimerState{Phase: model.PhaseWork, RemainingSeconds: 720, CompletedWorkPhases: 3},
		Stats: model.SessionStats{
			CompletedPomodoros: 9,
			CompletedToday:     3,
			TotalFocusSeconds:  9 * 1500,
			TotalBreakSeconds:  1800,
			CurrentStreakDays:  4,
			BestStreakDays:     6,
			LastCompletionDate: "2026-03-10",
		},
		Tasks: []model.Task{
			{ID: "a", Title: "write docs", Status: model.TaskDone, Pomodoros: 2},
			{ID: "b", Title: "review", Status: model.TaskInProgress, Pomodoros: 1},
			{ID: "c", Title: "plan", Status: model.TaskTodo},
		},
		FocusTaskID: "b",
	}

	var out bytes.Buffer
	require.NoError(t, printStats(&out, snapshot, true, now, newStatsStyles()))

	text := out.String()
	assert.Contains(t, text, "9 total, 3 today")
	assert.Contains(t, text, "3h45m0s")
	assert.Contains(t, text, "4 days (best 6)")
	assert.Contains(t, text, "Focus Time 12:00, 3 pomodoros this run")
	assert.Contains(t, text, "Tasks (2 open, 1 done)")
	assert.Contains(t, text, "[x] write docs (2)")
	assert.Contains(t, text, "[>] review (1) <- focus")
	assert.Contains(t, text, "[ ] plan (0)")
}

func TestStatsCommandReadsConfigDir(t *testing.T) {
	dir := t.TempDir()
	snapshot := model.Snapshot{
		Settings: model.DefaultSettings(),
		Timer:    model.NewTimerState(model.DefaultSettings()),
		Stats:    model.SessionStats{CompletedPomodoros: 5},
	}
	require.NoError(t, storage.NewStore(dir, zerolog.Nop()).Save(snapshot))

	cmd := newRootCmd(BuildInfo{Version: "test"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"stats", "--config-dir", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "5 total")
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "focusdash 1.2.3 (commit abc123, built 2026-01-01)\n", out.String())
}

func TestResolveConfigDir(t *testing.T) {
	override := t.TempDir()
	dir, err := resolveConfigDir(override)
	require.NoError(t, err)
	assert.Equal(t, override, dir)

	fromEnv := filepath.Join(t.TempDir(), "env")
	t.Setenv("FOCUSDASH_CONFIG_DIR", fromEnv)
	dir, err = resolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, fromEnv, dir)
}
