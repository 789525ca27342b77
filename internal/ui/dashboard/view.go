package dashboard

import (
	"fmt"
	"time"

	"focusdash/internal/core/model"
	"focusdash/internal/core/session"
)

// View is the rendered dashboard text for one snapshot.
type View struct {
	Phase     model.Phase
	Title     string
	Countdown string
	Progress  float64
	Running   bool
	Toggle    string
	Cycle     string
	Focus     string
	Today     string
	Streak    string
	Totals    string
	Tasks     []TaskRow
}

// TaskRow is one entry of the task list.
type TaskRow struct {
	ID        string
	Title     string
	Pomodoros int
	Status    model.TaskStatus
	Focused   bool
}

// Text renders the row title with its pomodoro count.
func (row TaskRow) Text() string {
	return fmt.Sprintf("%s (%d)", row.Title, row.Pomodoros)
}

// Describe renders snapshot for display at now.
func Describe(snapshot model.Snapshot, progress float64, now time.Time) View {
	timer := snapshot.Timer
	stats := snapshot.Stats

	view := View{
		Phase:     timer.Phase,
		Title:     timer.Phase.Label(),
		Countdown: formatDuration(timer.Remaining()),
		Progress:  clamp(progress),
		Running:   timer.Running,
		Toggle:    "Start",
		Cycle:     cycleText(timer, snapshot.Settings.LongBreakInterval),
		Focus:     "No focus task",
		Today:     plural(session.CompletedOn(stats, now), "pomodoro") + " today",
		Streak:    streakText(session.StreakOn(stats, now), stats.BestStreakDays),
		Totals: fmt.Sprintf("%s focused, %s on breaks, %s overall",
			formatTotal(stats.TotalFocusSeconds),
			formatTotal(stats.TotalBreakSeconds),
			plural(stats.CompletedPomodoros, "pomodoro")),
	}
	if timer.Running {
		view.Toggle = "Pause"
	}
	if task, ok := snapshot.FocusTask(); ok {
		view.Focus = fmt.Sprintf("%s (%s)", task.Title, plural(task.Pomodoros, "pomodoro"))
	}
	for _, task := range snapshot.Tasks {
		view.Tasks = append(view.Tasks, TaskRow{
			ID:        task.ID,
			Title:     task.Title,
			Pomodoros: task.Pomodoros,
			Status:    task.Status,
			Focused:   task.ID == snapshot.FocusTaskID,
		})
	}
	return view
}

func cycleText(timer model.TimerState, interval int) string {
	if interval < 1 {
		interval = 1
	}
	switch timer.Phase {
	case model.PhaseWork:
		return fmt.Sprintf("Pomodoro %d of %d", timer.CompletedWorkPhases%interval+1, interval)
	case model.PhaseLongBreak:
		return "Cycle complete"
	default:
		return fmt.Sprintf("%d of %d done", timer.CompletedWorkPhases%interval, interval)
	}
}

func streakText(current, best int) string {
	if current == 0 {
		return fmt.Sprintf("No streak (best %s)", plural(best, "day"))
	}
	return fmt.Sprintf("%s streak (best %s)", plural(current, "day"), plural(best, "day"))
}

func plural(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func formatTotal(seconds int) string {
	if seconds <= 0 {
		return "0m"
	}
	total := time.Duration(seconds) * time.Second
	hours := int(total.Hours())
	minutes := int(total.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

var statusLabels = map[model.TaskStatus]string{
	model.TaskTodo:       "To do",
	model.TaskInProgress: "In progress",
	model.TaskDone:       "Done",
}

// StatusOptions lists the status choices in column order.
func StatusOptions() []string {
	return []string{statusLabels[model.TaskTodo], statusLabels[model.TaskInProgress], statusLabels[model.TaskDone]}
}

// StatusLabel returns the display label of status.
func StatusLabel(status model.TaskStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return statusLabels[model.TaskTodo]
}

// ParseStatusLabel maps a display label back to a status.
func ParseStatusLabel(label string) (model.TaskStatus, bool) {
	for status, candidate := range statusLabels {
		if candidate == label {
			return status, true
		}
	}
	return "", false
}
