package tray

import (
	"fmt"
	"time"

	"focusdash/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "FocusDash"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnDashboard   func()
	OnPreferences func()
	OnToggle      func()
	OnReset       func()
	OnSkip        func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	focusItem  *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	skipItem   *fyne.MenuItem
	callbacks  Callbacks
	status     Status
}

// Status is the subset of timer state shown in the tray.
type Status struct {
	Phase     model.Phase
	Remaining time.Duration
	Running   bool
	Focus     string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    Status{Phase: model.PhaseWork},
	}

	manager.statusItem = fyne.NewMenuItem("Starting...", nil)
	manager.statusItem.Disabled = true
	manager.focusItem = fyne.NewMenuItem("", nil)
	manager.focusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", invoke(&manager.callbacks.OnToggle))
	manager.resetItem = fyne.NewMenuItem("Reset", invoke(&manager.callbacks.OnReset))
	manager.skipItem = fyne.NewMenuItem("Skip", invoke(&manager.callbacks.OnSkip))

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status and toggle labels.
func (manager *Manager) SetStatus(status Status) {
	manager.status = status
	manager.statusItem.Label = StatusText(status)
	manager.focusItem.Label = focusText(status.Focus)
	manager.toggleItem.Label = ToggleText(status.Running)
	manager.refreshMenu()
}

// Status returns the last status shown.
func (manager *Manager) Status() Status {
	return manager.status
}

// SetIcon updates the tray icon.
func (manager *Manager) SetIcon(resource fyne.Resource) {
	if manager.app != nil && resource != nil {
		manager.app.SetSystemTrayIcon(resource)
	}
}

// StatusText renders the status line, e.g. "Focus Time 24:59".
func StatusText(status Status) string {
	text := fmt.Sprintf("%s %s", status.Phase.Label(), FormatRemaining(status.Remaining))
	if !status.Running {
		text += " (paused)"
	}
	return text
}

// ToggleText returns the label of the start/pause item.
func ToggleText(running bool) string {
	if running {
		return "Pause"
	}
	return "Start"
}

// FormatRemaining renders a countdown as MM:SS.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func focusText(title string) string {
	if title == "" {
		return "No focus task"
	}
	return "Focus: " + title
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.focusItem.Label = focusText(manager.status.Focus)
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		manager.focusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		manager.skipItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Dashboard", invoke(&manager.callbacks.OnDashboard)),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	))
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
