package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSettings indicates a settings value outside its allowed range.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings contains the durations and auto-advance rules of the timer.
type Settings struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration

	AutoStartBreaks   bool
	AutoStartWork     bool
	LongBreakInterval int

	NotificationsEnabled bool
	LaunchAtLogin        bool
}

// DefaultSettings returns the classic 25/5/15 schedule with a long break every fourth pomodoro.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:         25 * time.Minute,
		ShortBreakDuration:   5 * time.Minute,
		LongBreakDuration:    15 * time.Minute,
		AutoStartBreaks:      true,
		AutoStartWork:        false,
		LongBreakInterval:    4,
		NotificationsEnabled: true,
	}
}

// Duration returns the configured duration of a phase.
func (settings Settings) Duration(phase Phase) time.Duration {
	switch phase {
	case PhaseShortBreak:
		return settings.ShortBreakDuration
	case PhaseLongBreak:
		return settings.LongBreakDuration
	default:
		return settings.WorkDuration
	}
}

// Seconds returns the configured duration of a phase in whole seconds.
// Non-positive durations yield 0.
func (settings Settings) Seconds(phase Phase) int {
	seconds := int(settings.Duration(phase) / time.Second)
	if seconds < 0 {
		return 0
	}
	return seconds
}

// AutoStart reports whether a phase starts counting down as soon as it is entered.
func (settings Settings) AutoStart(phase Phase) bool {
	if phase.IsBreak() {
		return settings.AutoStartBreaks
	}
	return settings.AutoStartWork
}

// Validate checks that every duration is at least one second and the interval is positive.
func (settings Settings) Validate() error {
	for _, phase := range Phases() {
		if settings.Seconds(phase) <= 0 {
			return fmt.Errorf("%w: %s duration must be at least one second", ErrInvalidSettings, phase)
		}
	}
	if settings.LongBreakInterval < 1 {
		return fmt.Errorf("%w: long break interval must be at least 1", ErrInvalidSettings)
	}
	return nil
}
