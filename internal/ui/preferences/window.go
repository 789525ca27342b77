package preferences

import (
	"focusdash/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings)
	workEntry     *widget.Entry
	shortEntry    *widget.Entry
	longEntry     *widget.Entry
	intervalEntry *widget.Entry
	autoBreaks    *widget.Check
	autoWork      *widget.Check
	notifications *widget.Check
	launchAtLogin *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("FocusDash Preferences")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		workEntry:     widget.NewEntry(),
		shortEntry:    widget.NewEntry(),
		longEntry:     widget.NewEntry(),
		intervalEntry: widget.NewEntry(),
		autoBreaks:    widget.NewCheck("Start breaks automatically", nil),
		autoWork:      widget.NewCheck("Start focus sessions automatically", nil),
		notifications: widget.NewCheck("Show notifications", nil),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
	}

	durations := widget.NewForm(
		widget.NewFormItem("Focus (min)", prefs.workEntry),
		widget.NewFormItem("Short break (min)", prefs.shortEntry),
		widget.NewFormItem("Long break (min)", prefs.longEntry),
		widget.NewFormItem("Long break every", container.NewHBox(prefs.intervalEntry, widget.NewLabel("pomodoros"))),
	)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		durations,
		widget.NewLabelWithStyle("Behavior", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.autoBreaks,
		prefs.autoWork,
		prefs.notifications,
		prefs.launchAtLogin,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(cancelButton, layout.NewSpacer(), saveButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(420, 380))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.setForm(FormFromSettings(settings))
}

// Form returns the values currently entered.
func (prefs *Window) Form() Form {
	return Form{
		WorkMinutes:          prefs.workEntry.Text,
		ShortBreakMinutes:    prefs.shortEntry.Text,
		LongBreakMinutes:     prefs.longEntry.Text,
		LongBreakInterval:    prefs.intervalEntry.Text,
		AutoStartBreaks:      prefs.autoBreaks.Checked,
		AutoStartWork:        prefs.autoWork.Checked,
		NotificationsEnabled: prefs.notifications.Checked,
		LaunchAtLogin:        prefs.launchAtLogin.Checked,
	}
}

func (prefs *Window) setForm(form Form) {
	prefs.workEntry.SetText(form.WorkMinutes)
	prefs.shortEntry.SetText(form.ShortBreakMinutes)
	prefs.longEntry.SetText(form.LongBreakMinutes)
	prefs.intervalEntry.SetText(form.LongBreakInterval)
	prefs.autoBreaks.SetChecked(form.AutoStartBreaks)
	prefs.autoWork.SetChecked(form.AutoStartWork)
	prefs.notifications.SetChecked(form.NotificationsEnabled)
	prefs.launchAtLogin.SetChecked(form.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	settings, err := prefs.Form().Settings(prefs.settings)
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}
