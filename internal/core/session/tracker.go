// Package session derives pomodoro statistics and daily streaks from phase completions.
package session

import (
	"time"

	"focusdash/internal/core/model"
)

// DateLayout is the calendar-day format stored in SessionStats.LastCompletionDate.
const DateLayout = "2006-01-02"

// Tracker owns SessionStats. It is not safe for concurrent use.
type Tracker struct {
	stats model.SessionStats
}

// NewTracker starts from previously persisted statistics.
func NewTracker(stats model.SessionStats) *Tracker {
	return &Tracker{stats: stats}
}

// Stats returns a copy of the current statistics.
func (tracker *Tracker) Stats() model.SessionStats {
	return tracker.stats
}

// RecordWorkCompletion credits one pomodoro and its focus time.
func (tracker *Tracker) RecordWorkCompletion(focusSeconds int) {
	tracker.stats.CompletedPomodoros++
	tracker.stats.CompletedToday++
	if focusSeconds > 0 {
		tracker.stats.TotalFocusSeconds += focusSeconds
	}
}

// RecordBreakCompletion adds a finished break to the break-time total.
func (tracker *Tracker) RecordBreakCompletion(breakSeconds int) {
	if breakSeconds > 0 {
		tracker.stats.TotalBreakSeconds += breakSeconds
	}
}

// RecordDailyCheckpoint advances the streak for the calendar day of today.
// A completion yesterday continues the streak, one today changes nothing,
// anything else starts a new streak of one day.
func (tracker *Tracker) RecordDailyCheckpoint(today time.Time) {
	day := today.Format(DateLayout)
	switch tracker.stats.LastCompletionDate {
	case day:
		return
	case yesterday(today):
		tracker.stats.CurrentStreakDays++
	default:
		tracker.stats.CurrentStreakDays = 1
	}
	tracker.stats.CompletedToday = 0
	if tracker.stats.CurrentStreakDays > tracker.stats.BestStreakDays {
		tracker.stats.BestStreakDays = tracker.stats.CurrentStreakDays
	}
	tracker.stats.LastCompletionDate = day
}

// CompletedOn returns the pomodoros completed on the calendar day of today.
func (tracker *Tracker) CompletedOn(today time.Time) int {
	return CompletedOn(tracker.stats, today)
}

// CompletedOn returns stats.CompletedToday when the last completion happened on
// the calendar day of today, and 0 otherwise.
func CompletedOn(stats model.SessionStats, today time.Time) int {
	if stats.LastCompletionDate != today.Format(DateLayout) {
		return 0
	}
	return stats.CompletedToday
}

// StreakOn returns the streak as it stands on today: a streak whose last day
// is neither today nor yesterday is already broken.
func StreakOn(stats model.SessionStats, today time.Time) int {
	switch stats.LastCompletionDate {
	case today.Format(DateLayout), yesterday(today):
		return stats.CurrentStreakDays
	}
	return 0
}

func yesterday(today time.Time) string {
	year, month, day := today.Date()
	return time.Date(year, month, day-1, 12, 0, 0, 0, today.Location()).Format(DateLayout)
}
