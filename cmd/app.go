package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"focusdash/internal/core/model"
	"focusdash/internal/core/timekeeper"
	"focusdash/internal/logging"
	"focusdash/internal/notify"
	"focusdash/internal/platform"
	"focusdash/internal/storage"
	"focusdash/internal/ui/animation"
	"focusdash/internal/ui/dashboard"
	"focusdash/internal/ui/preferences"
	"focusdash/internal/ui/tray"
	"focusdash/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
)

func runApp(ctx context.Context, flags *globalFlags, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	logger := logging.New(logging.Options{Verbose: flags.verbose, Dir: dir})
	defer func() {
		_ = logger.Close()
	}()
	appLogger := logger.With().Str("component", "app").Logger()

	// Show requests can arrive before the dashboard exists.
	showRequests := make(chan struct{}, 1)
	guard, err := platform.AcquireSingleInstance(appName, func() {
		select {
		case showRequests <- struct{}{}:
		default:
		}
	})
	if errors.Is(err, platform.ErrAlreadyRunning) {
		appLogger.Info().Msg("already running, asked the other instance to show its dashboard")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	store := storage.NewStore(dir, logger.Logger)
	snapshot, restored := store.Load()
	appLogger.Info().
		Str("dir", dir).
		Bool("restored", restored).
		Str("phase", string(snapshot.Timer.Phase)).
		Int("remaining_seconds", snapshot.Timer.RemainingSeconds).
		Msg("starting")

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	saver := storage.NewSaver(store, logger.Logger)
	desktopNotifier := notify.NewDesktop(fyneApp, snapshot.Settings.NotificationsEnabled, logger.Logger)
	keeper := timekeeper.New(snapshot, timekeeper.Config{
		TickInterval: time.Second,
		Logger:       logger.Logger,
		Notifier:     notify.NewMulti(logger.Logger, desktopNotifier, notify.NewLog(logger.Logger)),
		Saver:        saver,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	service := platform.NewService()
	host := &desktopHost{
		keeper:    keeper,
		notifier:  desktopNotifier,
		service:   service,
		logger:    appLogger,
		autostart: snapshot.Settings.LaunchAtLogin,
	}

	host.dashboard = dashboard.New(fyneApp, dashboard.Actions{
		OnToggle: keeper.Toggle,
		OnReset:  keeper.Reset,
		OnSkip:   keeper.Skip,
		OnFocus: func(title string) error {
			_, err := keeper.FocusTask(title)
			return err
		},
		OnCompleteTask: keeper.CompleteFocusTask,
		OnUnfocus:      keeper.Unfocus,
		OnSetStatus:    keeper.SetTaskStatus,
		OnRemove:       keeper.RemoveTask,
	})
	desktopApp.SetSystemTrayWindow(host.dashboard.Window())
	host.prefs = preferences.New(fyneApp, snapshot.Settings, host.applySettings)
	host.tray = tray.New(desktopApp, tray.Callbacks{
		OnDashboard:   host.dashboard.Show,
		OnPreferences: host.prefs.Show,
		OnToggle:      keeper.Toggle,
		OnReset:       keeper.Reset,
		OnSkip:        keeper.Skip,
		OnQuit: func() {
			fyneApp.Quit()
		},
	})
	host.flasher = animation.New(animation.DefaultConfig(), func(resource fyne.Resource) {
		fyne.Do(func() {
			host.tray.SetIcon(resource)
		})
	})
	host.tray.SetIcon(resources.PhaseIcon(snapshot.Timer.Phase, false))

	if err := platform.SyncAutostart(service, appName, snapshot.Settings.LaunchAtLogin); err != nil {
		appLogger.Warn().Err(err).Msg("autostart sync failed")
	}

	watcher := storage.NewSettingsWatcher(store, logger.Logger, func(settings model.Settings) {
		host.applySettings(settings)
		fyne.Do(func() {
			host.prefs.UpdateSettings(settings)
		})
	})
	if err := watcher.Start(runCtx); err != nil {
		appLogger.Warn().Err(err).Msg("settings hot reload disabled")
	}

	var wg sync.WaitGroup
	events := keeper.Subscribe(16)
	wg.Add(2)
	go func() {
		defer wg.Done()
		host.render(runCtx, events)
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-showRequests:
				fyne.Do(host.dashboard.Show)
			}
		}
	}()

	fyneApp.Lifecycle().SetOnStarted(func() {
		keeper.Start()
		if !flags.background {
			host.dashboard.Show()
		}
	})

	fyneApp.Run()

	appLogger.Info().Msg("shutting down")
	cancel()
	watcher.Wait()
	keeper.Stop()
	wg.Wait()
	host.flasher.Stop()
	saver.Close()
	return nil
}

// desktopHost routes timekeeper events to the tray and windows.
type desktopHost struct {
	keeper    *timekeeper.TimeKeeper
	notifier  *notify.Desktop
	service   platform.Service
	logger    zerolog.Logger
	dashboard *dashboard.Window
	prefs     *preferences.Window
	tray      *tray.Manager
	flasher   *animation.Engine

	mu        sync.Mutex
	autostart bool
}

func (host *desktopHost) applySettings(settings model.Settings) {
	host.keeper.UpdateSettings(settings)
	host.notifier.SetEnabled(settings.NotificationsEnabled)

	host.mu.Lock()
	changed := host.autostart != settings.LaunchAtLogin
	host.autostart = settings.LaunchAtLogin
	host.mu.Unlock()
	if !changed {
		return
	}
	if err := platform.SyncAutostart(host.service, appName, settings.LaunchAtLogin); err != nil {
		host.logger.Warn().Err(err).Bool("enabled", settings.LaunchAtLogin).Msg("autostart sync failed")
	}
}

// render applies events to the UI. A completion is always followed by a state
// change carrying the next phase; that event starts the tray flash.
func (host *desktopHost) render(ctx context.Context, events <-chan timekeeper.Event) {
	var ended model.Phase
	for event := range events {
		view := dashboard.Describe(event.Snapshot, event.Progress, event.At)
		timer := event.Snapshot.Timer
		status := tray.Status{
			Phase:     timer.Phase,
			Remaining: event.Remaining,
			Running:   timer.Running,
		}
		if task, ok := event.Snapshot.FocusTask(); ok {
			status.Focus = task.Title
		}
		next := resources.PhaseIcon(timer.Phase, timer.Running)

		// Progress ticks leave the icon alone so a running flash is not overwritten.
		var icon fyne.Resource
		switch event.Type {
		case timekeeper.EventPhaseComplete:
			ended = event.Phase
		case timekeeper.EventProgress:
		default:
			host.flasher.Stop()
			if ended == "" {
				icon = next
				break
			}
			host.flasher.Flash(ctx, animation.FlashSpec{
				Ended: resources.PhaseIcon(ended, true),
				Next:  next,
			})
			ended = ""
		}

		fyne.Do(func() {
			host.dashboard.Update(view)
			host.tray.SetStatus(status)
			host.tray.SetIcon(icon)
		})
	}
}
