package model

import "time"

// TimerState is the countdown owned by the phase engine.
type TimerState struct {
	Phase               Phase
	RemainingSeconds    int
	Running             bool
	CompletedWorkPhases int
}

// NewTimerState returns a paused, full-length work countdown.
func NewTimerState(settings Settings) TimerState {
	return TimerState{
		Phase:            PhaseWork,
		RemainingSeconds: settings.Seconds(PhaseWork),
	}
}

// Remaining returns the remaining countdown as a duration.
func (state TimerState) Remaining() time.Duration {
	return time.Duration(state.RemainingSeconds) * time.Second
}

// SessionStats aggregates completed pomodoros, focus time and daily streaks.
type SessionStats struct {
	CompletedPomodoros int
	CompletedToday     int
	TotalFocusSeconds  int
	TotalBreakSeconds  int
	CurrentStreakDays  int
	BestStreakDays     int
	LastCompletionDate string
}

// TaskStatus is the column a task sits in.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Valid reports whether status is a known column.
func (status TaskStatus) Valid() bool {
	switch status {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task is a unit of work pomodoros can be credited to.
type Task struct {
	ID        string
	Title     string
	Status    TaskStatus
	Pomodoros int
	CreatedAt time.Time
}

// Snapshot is an immutable copy of everything worth persisting or rendering.
type Snapshot struct {
	Settings    Settings
	Timer       TimerState
	Stats       SessionStats
	Tasks       []Task
	FocusTaskID string
}

// Clone returns a snapshot that shares no slices with the receiver.
func (snapshot Snapshot) Clone() Snapshot {
	clone := snapshot
	if snapshot.Tasks != nil {
		clone.Tasks = append([]Task(nil), snapshot.Tasks...)
	}
	return clone
}

// FocusTask returns the focused task if one is set.
func (snapshot Snapshot) FocusTask() (Task, bool) {
	if snapshot.FocusTaskID == "" {
		return Task{}, false
	}
	for _, task := range snapshot.Tasks {
		if task.ID == snapshot.FocusTaskID {
			return task, true
		}
	}
	return Task{}, false
}
