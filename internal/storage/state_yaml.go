package storage

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"focusdash/internal/core/model"
)

const (
	stateFileName = "state.yaml"
	stateVersion  = 1
)

type yamlState struct {
	Version     int        `yaml:"version"`
	SavedAt     time.Time  `yaml:"saved_at"`
	Timer       yamlTimer  `yaml:"timer"`
	Stats       yamlStats  `yaml:"stats"`
	FocusTaskID string     `yaml:"focus_task_id,omitempty"`
	Tasks       []yamlTask `yaml:"tasks,omitempty"`
}

type yamlTimer struct {
	Phase               string `yaml:"phase"`
	RemainingSeconds    *int   `yaml:"remaining_seconds,omitempty"`
	CompletedWorkPhases int    `yaml:"completed_work_phases"`
}

type yamlStats struct {
	CompletedPomodoros int    `yaml:"completed_pomodoros"`
	CompletedToday     int    `yaml:"completed_today"`
	TotalFocusSeconds  int    `yaml:"total_focus_seconds"`
	TotalBreakSeconds  int    `yaml:"total_break_seconds"`
	CurrentStreakDays  int    `yaml:"current_streak_days"`
	BestStreakDays     int    `yaml:"best_streak_days"`
	LastCompletionDate string `yaml:"last_completion_date,omitempty"`
}

type yamlTask struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Status    string    `yaml:"status"`
	Pomodoros int       `yaml:"pomodoros"`
	CreatedAt time.Time `yaml:"created_at"`
}

func decodeState(rawData []byte, settings model.Settings) (model.Snapshot, error) {
	var fileData yamlState
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return model.Snapshot{}, fmt.Errorf("parse state yaml: %w", err)
	}
	if fileData.Version > stateVersion {
		return model.Snapshot{}, fmt.Errorf("state version %d is newer than supported %d", fileData.Version, stateVersion)
	}

	snapshot := model.Snapshot{
		Settings:    settings,
		Timer:       model.NewTimerState(settings),
		FocusTaskID: fileData.FocusTaskID,
	}

	phase := model.Phase(fileData.Timer.Phase)
	if phase.Valid() {
		snapshot.Timer.Phase = phase
		snapshot.Timer.RemainingSeconds = settings.Seconds(phase)
	}
	if fileData.Timer.RemainingSeconds != nil {
		snapshot.Timer.RemainingSeconds = *fileData.Timer.RemainingSeconds
	}
	snapshot.Timer.CompletedWorkPhases = nonNegative(fileData.Timer.CompletedWorkPhases)

	snapshot.Stats = model.SessionStats{
		CompletedPomodoros: nonNegative(fileData.Stats.CompletedPomodoros),
		CompletedToday:     nonNegative(fileData.Stats.CompletedToday),
		TotalFocusSeconds:  nonNegative(fileData.Stats.TotalFocusSeconds),
		TotalBreakSeconds:  nonNegative(fileData.Stats.TotalBreakSeconds),
		CurrentStreakDays:  nonNegative(fileData.Stats.CurrentStreakDays),
		BestStreakDays:     nonNegative(fileData.Stats.BestStreakDays),
		LastCompletionDate: fileData.Stats.LastCompletionDate,
	}

	for _, task := range fileData.Tasks {
		if task.ID == "" {
			continue
		}
		status := model.TaskStatus(task.Status)
		if !status.Valid() {
			status = model.TaskTodo
		}
		snapshot.Tasks = append(snapshot.Tasks, model.Task{
			ID:        task.ID,
			Title:     task.Title,
			Status:    status,
			Pomodoros: nonNegative(task.Pomodoros),
			CreatedAt: task.CreatedAt,
		})
	}

	return snapshot, nil
}

func encodeState(snapshot model.Snapshot, savedAt time.Time) ([]byte, error) {
	remaining := snapshot.Timer.RemainingSeconds
	fileData := yamlState{
		Version: stateVersion,
		SavedAt: savedAt,
		Timer: yamlTimer{
			Phase:               string(snapshot.Timer.Phase),
			RemainingSeconds:    &remaining,
			CompletedWorkPhases: snapshot.Timer.CompletedWorkPhases,
		},
		Stats: yamlStats{
			CompletedPomodoros: snapshot.Stats.CompletedPomodoros,
			CompletedToday:     snapshot.Stats.CompletedToday,
			TotalFocusSeconds:  snapshot.Stats.TotalFocusSeconds,
			TotalBreakSeconds:  snapshot.Stats.TotalBreakSeconds,
			CurrentStreakDays:  snapshot.Stats.CurrentStreakDays,
			BestStreakDays:     snapshot.Stats.BestStreakDays,
			LastCompletionDate: snapshot.Stats.LastCompletionDate,
		},
		FocusTaskID: snapshot.FocusTaskID,
	}
	for _, task := range snapshot.Tasks {
		fileData.Tasks = append(fileData.Tasks, yamlTask{
			ID:        task.ID,
			Title:     task.Title,
			Status:    string(task.Status),
			Pomodoros: task.Pomodoros,
			CreatedAt: task.CreatedAt,
		})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, fmt.Errorf("marshal state yaml: %w", err)
	}
	return serialized, nil
}

func nonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
