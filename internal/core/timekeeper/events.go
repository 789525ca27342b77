package timekeeper

import (
	"time"

	"focusdash/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventProgress       EventType = "progress"
	EventPhaseComplete  EventType = "phase_complete"
	EventSettingsChange EventType = "settings_change"
	EventTasksChange    EventType = "tasks_change"
)

// Event is an immutable TimeKeeper update for observers.
// For EventPhaseComplete, Phase is the phase that just ended; otherwise it is
// the current phase.
type Event struct {
	Type      EventType
	Phase     model.Phase
	Snapshot  model.Snapshot
	Remaining time.Duration
	Progress  float64
	At        time.Time
}
