package preferences

import (
	"testing"
	"time"

	"focusdash/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormRoundTripsDefaults(t *testing.T) {
	defaults := model.DefaultSettings()
	form := FormFromSettings(defaults)

	assert.Equal(t, "25", form.WorkMinutes)
	assert.Equal(t, "5", form.ShortBreakMinutes)
	assert.Equal(t, "15", form.LongBreakMinutes)
	assert.Equal(t, "4", form.LongBreakInterval)

	settings, err := form.Settings(defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, settings)
}

func TestFormAcceptsFractionalMinutes(t *testing.T) {
	form := FormFromSettings(model.DefaultSettings())
	form.WorkMinutes = "0.5"
	form.AutoStartWork = true
	form.LaunchAtLogin = true

	settings, err := form.Settings(model.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, settings.WorkDuration)
	assert.True(t, settings.AutoStartWork)
	assert.True(t, settings.LaunchAtLogin)
}

func TestFormRejectsInvalidValues(t *testing.T) {
	base := model.DefaultSettings()
	tests := []struct {
		name   string
		mutate func(*Form)
	}{
		{"non-numeric focus", func(form *Form) { form.WorkMinutes = "abc" }},
		{"zero short break", func(form *Form) { form.ShortBreakMinutes = "0" }},
		{"negative long break", func(form *Form) { form.LongBreakMinutes = "-3" }},
		{"zero interval", func(form *Form) { form.LongBreakInterval = "0" }},
		{"sub-second focus", func(form *Form) { form.WorkMinutes = "0.001" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			form := FormFromSettings(base)
			test.mutate(&form)

			settings, err := form.Settings(base)
			require.Error(t, err)
			assert.Equal(t, base, settings)
		})
	}
}
