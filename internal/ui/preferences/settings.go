package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"focusdash/internal/core/model"
)

// Form holds the editable preference values as shown in the window.
type Form struct {
	WorkMinutes       string
	ShortBreakMinutes string
	LongBreakMinutes  string
	LongBreakInterval string

	AutoStartBreaks      bool
	AutoStartWork        bool
	NotificationsEnabled bool
	LaunchAtLogin        bool
}

// FormFromSettings renders settings into form values.
func FormFromSettings(settings model.Settings) Form {
	return Form{
		WorkMinutes:          formatMinutes(settings.WorkDuration),
		ShortBreakMinutes:    formatMinutes(settings.ShortBreakDuration),
		LongBreakMinutes:     formatMinutes(settings.LongBreakDuration),
		LongBreakInterval:    strconv.Itoa(settings.LongBreakInterval),
		AutoStartBreaks:      settings.AutoStartBreaks,
		AutoStartWork:        settings.AutoStartWork,
		NotificationsEnabled: settings.NotificationsEnabled,
		LaunchAtLogin:        settings.LaunchAtLogin,
	}
}

// Settings parses the form on top of base and validates the result.
func (form Form) Settings(base model.Settings) (model.Settings, error) {
	settings := base
	var errs []error

	parseDuration := func(name, value string, target *time.Duration) {
		minutes, err := parseMinutes(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*target = minutes
	}
	parseDuration("focus", form.WorkMinutes, &settings.WorkDuration)
	parseDuration("short break", form.ShortBreakMinutes, &settings.ShortBreakDuration)
	parseDuration("long break", form.LongBreakMinutes, &settings.LongBreakDuration)

	interval, err := strconv.Atoi(strings.TrimSpace(form.LongBreakInterval))
	if err != nil || interval < 1 {
		errs = append(errs, fmt.Errorf("long break interval: %q is not a positive number", form.LongBreakInterval))
	} else {
		settings.LongBreakInterval = interval
	}

	settings.AutoStartBreaks = form.AutoStartBreaks
	settings.AutoStartWork = form.AutoStartWork
	settings.NotificationsEnabled = form.NotificationsEnabled
	settings.LaunchAtLogin = form.LaunchAtLogin

	if len(errs) > 0 {
		return base, errors.Join(errs...)
	}
	if err := settings.Validate(); err != nil {
		return base, err
	}
	return settings, nil
}

// parseMinutes accepts whole or fractional minutes, e.g. "25" or "0.5".
func parseMinutes(value string) (time.Duration, error) {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("%q is not a positive number of minutes", value)
	}
	return (time.Duration(minutes*float64(time.Minute)) / time.Second) * time.Second, nil
}

func formatMinutes(duration time.Duration) string {
	return strconv.FormatFloat(duration.Minutes(), 'f', -1, 64)
}
