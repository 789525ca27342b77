package dashboard

import (
	"image/color"

	"focusdash/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Actions are invoked from dashboard buttons.
type Actions struct {
	OnToggle       func()
	OnReset        func()
	OnSkip         func()
	OnFocus        func(title string) error
	OnCompleteTask func() error
	OnUnfocus      func()
	OnSetStatus    func(id string, status model.TaskStatus) error
	OnRemove       func(id string) error
}

// Window is the main timer window. Update must run on the Fyne goroutine.
type Window struct {
	window     fyne.Window
	actions    Actions
	background *canvas.Rectangle
	titleLabel *canvas.Text
	timerLabel *canvas.Text
	cycleLabel *widget.Label
	progress   *widget.ProgressBar
	toggle     *widget.Button
	focusLabel *widget.Label
	focusEntry *widget.Entry
	doneButton *widget.Button
	taskList   *widget.List
	tasks      []TaskRow
	today      *widget.Label
	streak     *widget.Label
	totals     *widget.Label
}

// New creates the dashboard window. It starts hidden.
func New(app fyne.App, actions Actions) *Window {
	window := app.NewWindow("FocusDash")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	dash := &Window{
		window:     window,
		actions:    actions,
		background: canvas.NewRectangle(phaseColor(model.PhaseWork)),
		cycleLabel: widget.NewLabel(""),
		progress:   widget.NewProgressBar(),
		focusLabel: widget.NewLabel(""),
		focusEntry: widget.NewEntry(),
		today:      widget.NewLabel(""),
		streak:     widget.NewLabel(""),
		totals:     widget.NewLabel(""),
	}

	dash.titleLabel = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	dash.titleLabel.Alignment = fyne.TextAlignCenter
	dash.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	dash.titleLabel.TextSize = 20

	dash.timerLabel = canvas.NewText("--:--", theme.Color(theme.ColorNameForeground))
	dash.timerLabel.Alignment = fyne.TextAlignCenter
	dash.timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	dash.timerLabel.TextSize = 56

	dash.cycleLabel.Alignment = fyne.TextAlignCenter
	dash.progress.TextFormatter = func() string { return "" }

	dash.toggle = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), call(actions.OnToggle))
	dash.toggle.Importance = widget.HighImportance
	reset := widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), call(actions.OnReset))
	skip := widget.NewButtonWithIcon("Skip", theme.MediaSkipNextIcon(), call(actions.OnSkip))

	dash.focusEntry.SetPlaceHolder("What are you working on?")
	dash.focusEntry.OnSubmitted = dash.submitFocus
	focusButton := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		dash.submitFocus(dash.focusEntry.Text)
	})
	dash.doneButton = widget.NewButtonWithIcon("Done", theme.ConfirmIcon(), dash.completeTask)
	unfocusButton := widget.NewButtonWithIcon("", theme.CancelIcon(), call(actions.OnUnfocus))
	dash.taskList = widget.NewList(
		func() int { return len(dash.tasks) },
		newTaskItem,
		dash.updateTaskItem,
	)

	timerPanel := container.NewStack(dash.background, container.NewPadded(container.NewVBox(
		dash.titleLabel,
		dash.timerLabel,
		dash.cycleLabel,
	)))

	controls := container.NewHBox(layout.NewSpacer(), reset, dash.toggle, skip, layout.NewSpacer())
	focus := container.NewVBox(
		widget.NewLabelWithStyle("Focus", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, container.NewHBox(dash.doneButton, unfocusButton), dash.focusLabel),
		container.NewBorder(nil, nil, nil, focusButton, dash.focusEntry),
	)
	stats := container.NewVBox(
		widget.NewLabelWithStyle("Progress", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		dash.today,
		dash.streak,
		dash.totals,
	)

	top := container.NewVBox(timerPanel, dash.progress, controls, widget.NewSeparator(), focus,
		widget.NewLabelWithStyle("Tasks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	bottom := container.NewVBox(widget.NewSeparator(), stats)
	window.SetContent(container.NewBorder(top, bottom, nil, nil, dash.taskList))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(420, 640))

	return dash
}

// Show displays the dashboard.
func (dash *Window) Show() {
	dash.window.Show()
	dash.window.RequestFocus()
}

// Window exposes the underlying Fyne window.
func (dash *Window) Window() fyne.Window {
	return dash.window
}

// Hide hides the dashboard without quitting.
func (dash *Window) Hide() {
	dash.window.Hide()
}

// Update renders view into the window widgets.
func (dash *Window) Update(view View) {
	dash.background.FillColor = phaseColor(view.Phase)
	dash.background.Refresh()

	dash.titleLabel.Text = view.Title
	dash.titleLabel.Refresh()
	dash.timerLabel.Text = view.Countdown
	dash.timerLabel.Refresh()
	dash.cycleLabel.SetText(view.Cycle)
	dash.progress.SetValue(view.Progress)

	dash.toggle.SetText(view.Toggle)
	if view.Running {
		dash.toggle.SetIcon(theme.MediaPauseIcon())
	} else {
		dash.toggle.SetIcon(theme.MediaPlayIcon())
	}

	dash.focusLabel.SetText(view.Focus)
	dash.today.SetText(view.Today)
	dash.streak.SetText(view.Streak)
	dash.totals.SetText(view.Totals)

	dash.tasks = view.Tasks
	dash.taskList.Refresh()
}

// newTaskItem builds a row: focus button, title, status select, delete button.
func newTaskItem() fyne.CanvasObject {
	focus := widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	status := widget.NewSelect(StatusOptions(), nil)
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
	return container.NewBorder(nil, nil, focus, container.NewHBox(status, remove), widget.NewLabel(""))
}

func (dash *Window) updateTaskItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(dash.tasks) {
		return
	}
	row := dash.tasks[id]
	objects := item.(*fyne.Container).Objects
	title := objects[0].(*widget.Label)
	focus := objects[1].(*widget.Button)
	controls := objects[2].(*fyne.Container).Objects
	status := controls[0].(*widget.Select)
	remove := controls[1].(*widget.Button)

	title.SetText(row.Text())
	if row.Focused {
		title.TextStyle = fyne.TextStyle{Bold: true}
	} else {
		title.TextStyle = fyne.TextStyle{}
	}
	title.Refresh()

	focus.OnTapped = func() {
		if dash.actions.OnFocus != nil {
			dash.report(dash.actions.OnFocus(row.Title))
		}
	}
	if row.Focused || row.Status == model.TaskDone {
		focus.Disable()
	} else {
		focus.Enable()
	}

	status.OnChanged = nil
	status.SetSelected(StatusLabel(row.Status))
	status.OnChanged = func(label string) {
		next, ok := ParseStatusLabel(label)
		if !ok || next == row.Status || dash.actions.OnSetStatus == nil {
			return
		}
		dash.report(dash.actions.OnSetStatus(row.ID, next))
	}

	remove.OnTapped = func() {
		if dash.actions.OnRemove != nil {
			dash.report(dash.actions.OnRemove(row.ID))
		}
	}
}

func (dash *Window) report(err error) {
	if err != nil {
		dialog.ShowError(err, dash.window)
	}
}

func (dash *Window) submitFocus(title string) {
	if dash.actions.OnFocus == nil {
		return
	}
	if err := dash.actions.OnFocus(title); err != nil {
		dialog.ShowError(err, dash.window)
		return
	}
	dash.focusEntry.SetText("")
}

func (dash *Window) completeTask() {
	if dash.actions.OnCompleteTask == nil {
		return
	}
	dash.report(dash.actions.OnCompleteTask())
}

func phaseColor(phase model.Phase) color.Color {
	switch phase {
	case model.PhaseShortBreak:
		return color.NRGBA{R: 76, G: 175, B: 80, A: 64}
	case model.PhaseLongBreak:
		return color.NRGBA{R: 47, G: 128, B: 237, A: 64}
	default:
		return color.NRGBA{R: 229, G: 72, B: 59, A: 64}
	}
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
