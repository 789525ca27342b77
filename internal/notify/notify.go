// Package notify turns phase completions into user-facing notifications.
package notify

import (
	"sync/atomic"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"focusdash/internal/core/engine"
	"focusdash/internal/core/model"
)

// Sender delivers desktop notifications. fyne.App satisfies it.
type Sender interface {
	SendNotification(notification *fyne.Notification)
}

// Desktop raises a system notification when a phase ends.
type Desktop struct {
	sender  Sender
	logger  zerolog.Logger
	enabled atomic.Bool
}

// NewDesktop creates a desktop notifier.
func NewDesktop(sender Sender, enabled bool, logger zerolog.Logger) *Desktop {
	desktop := &Desktop{
		sender: sender,
		logger: logger.With().Str("component", "notifier").Logger(),
	}
	desktop.enabled.Store(enabled)
	return desktop
}

// SetEnabled toggles delivery.
func (desktop *Desktop) SetEnabled(enabled bool) {
	desktop.enabled.Store(enabled)
}

// OnPhaseComplete sends a notification describing what comes next.
// Delivery failures never reach the caller.
func (desktop *Desktop) OnPhaseComplete(ended model.Phase) {
	if !desktop.enabled.Load() || desktop.sender == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			desktop.logger.Warn().Interface("panic", recovered).Msg("notification failed")
		}
	}()
	title, body := Message(ended)
	desktop.sender.SendNotification(fyne.NewNotification(title, body))
}

// Message returns the title and body announced when ended finishes.
func Message(ended model.Phase) (string, string) {
	switch ended {
	case model.PhaseWork:
		return "Pomodoro complete!", "Take a break!"
	case model.PhaseLongBreak:
		return "Long break over", "Back to work, refreshed!"
	default:
		return "Break over", "Back to work!"
	}
}

// Log records phase completions in the application log.
type Log struct {
	logger zerolog.Logger
}

// NewLog creates a logging notifier.
func NewLog(logger zerolog.Logger) Log {
	return Log{logger: logger.With().Str("component", "notifier").Logger()}
}

// OnPhaseComplete logs the finished phase.
func (notifier Log) OnPhaseComplete(ended model.Phase) {
	title, _ := Message(ended)
	notifier.logger.Info().Str("ended", string(ended)).Msg(title)
}

// Multi fans a completion out to several notifiers. A panicking notifier
// is logged and does not prevent the others from running.
type Multi struct {
	notifiers []engine.Notifier
	logger    zerolog.Logger
}

// NewMulti creates a fan-out notifier.
func NewMulti(logger zerolog.Logger, notifiers ...engine.Notifier) *Multi {
	return &Multi{
		notifiers: notifiers,
		logger:    logger.With().Str("component", "notifier").Logger(),
	}
}

// OnPhaseComplete calls every notifier in order.
func (multi *Multi) OnPhaseComplete(ended model.Phase) {
	for index, notifier := range multi.notifiers {
		multi.callSafely(index, notifier, ended)
	}
}

func (multi *Multi) callSafely(index int, notifier engine.Notifier, ended model.Phase) {
	defer func() {
		if recovered := recover(); recovered != nil {
			multi.logger.Warn().
				Interface("panic", recovered).
				Int("notifier", index).
				Str("ended", string(ended)).
				Msg("notifier panicked")
		}
	}()
	notifier.OnPhaseComplete(ended)
}

var (
	_ engine.Notifier = (*Desktop)(nil)
	_ engine.Notifier = Log{}
	_ engine.Notifier = (*Multi)(nil)
)
