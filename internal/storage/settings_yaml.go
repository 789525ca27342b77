package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"focusdash/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkSeconds          int   `yaml:"work_seconds,omitempty"`
	ShortBreakSeconds    int   `yaml:"short_break_seconds,omitempty"`
	LongBreakSeconds     int   `yaml:"long_break_seconds,omitempty"`
	LongBreakInterval    int   `yaml:"long_break_interval,omitempty"`
	AutoStartBreaks      *bool `yaml:"auto_start_breaks,omitempty"`
	AutoStartWork        *bool `yaml:"auto_start_work,omitempty"`
	NotificationsEnabled *bool `yaml:"notifications_enabled,omitempty"`
	LaunchAtLogin        *bool `yaml:"launch_at_login,omitempty"`
}

// readSettings reads settings.yaml from path.
// If the file does not exist, default settings are returned.
func readSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func encodeSettings(settings model.Settings) ([]byte, error) {
	fileData := yamlSettings{
		WorkSeconds:          settings.Seconds(model.PhaseWork),
		ShortBreakSeconds:    settings.Seconds(model.PhaseShortBreak),
		LongBreakSeconds:     settings.Seconds(model.PhaseLongBreak),
		LongBreakInterval:    settings.LongBreakInterval,
		AutoStartBreaks:      boolPtr(settings.AutoStartBreaks),
		AutoStartWork:        boolPtr(settings.AutoStartWork),
		NotificationsEnabled: boolPtr(settings.NotificationsEnabled),
		LaunchAtLogin:        boolPtr(settings.LaunchAtLogin),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, fmt.Errorf("marshal settings yaml: %w", err)
	}
	return serialized, nil
}

// applyYamlSettings overlays the fields present in the file onto defaults.
// Out-of-range values keep the default.
func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.WorkSeconds > 0 {
		settings.WorkDuration = time.Duration(fileData.WorkSeconds) * time.Second
	}
	if fileData.ShortBreakSeconds > 0 {
		settings.ShortBreakDuration = time.Duration(fileData.ShortBreakSeconds) * time.Second
	}
	if fileData.LongBreakSeconds > 0 {
		settings.LongBreakDuration = time.Duration(fileData.LongBreakSeconds) * time.Second
	}
	if fileData.LongBreakInterval > 0 {
		settings.LongBreakInterval = fileData.LongBreakInterval
	}

	if fileData.AutoStartBreaks != nil {
		settings.AutoStartBreaks = *fileData.AutoStartBreaks
	}
	if fileData.AutoStartWork != nil {
		settings.AutoStartWork = *fileData.AutoStartWork
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.LaunchAtLogin != nil {
		settings.LaunchAtLogin = *fileData.LaunchAtLogin
	}
}

func boolPtr(value bool) *bool {
	return &value
}
