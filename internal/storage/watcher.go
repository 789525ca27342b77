package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"focusdash/internal/core/model"
)

const defaultDebounce = 300 * time.Millisecond

// SettingsWatcher reloads settings.yaml when it changes on disk.
type SettingsWatcher struct {
	store    *Store
	onChange func(model.Settings)
	logger   zerolog.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// NewSettingsWatcher creates a watcher that calls onChange with every
// successfully parsed settings file.
func NewSettingsWatcher(store *Store, logger zerolog.Logger, onChange func(model.Settings)) *SettingsWatcher {
	return &SettingsWatcher{
		store:    store,
		onChange: onChange,
		logger:   logger.With().Str("component", "settings_watcher").Logger(),
		debounce: defaultDebounce,
	}
}

// Start begins watching until ctx is cancelled. The directory is watched
// rather than the file because atomic writes replace the file's inode.
func (watcher *SettingsWatcher) Start(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsWatcher.Add(watcher.store.Dir()); err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	watcher.watcher = fsWatcher

	watcher.logger.Debug().Str("path", watcher.store.SettingsPath()).Msg("watching settings file")

	watcher.wg.Add(1)
	go watcher.loop(ctx)
	return nil
}

// Wait blocks until the watch loop has exited.
func (watcher *SettingsWatcher) Wait() {
	watcher.wg.Wait()
}

func (watcher *SettingsWatcher) loop(ctx context.Context) {
	defer watcher.wg.Done()
	defer func() {
		_ = watcher.watcher.Close()
	}()

	target := filepath.Clean(watcher.store.SettingsPath())
	debounceTimer := time.NewTimer(time.Hour)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounceTimer.Reset(watcher.debounce)
			}

		case <-debounceTimer.C:
			watcher.reload()

		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return
			}
			watcher.logger.Error().Err(err).Msg("settings watcher error")
		}
	}
}

func (watcher *SettingsWatcher) reload() {
	settings, err := watcher.store.LoadSettings()
	if err != nil {
		watcher.logger.Warn().Err(err).Msg("settings reload failed, keeping current settings")
		return
	}
	if !watcher.store.settingsChanged(settings) {
		return
	}
	watcher.store.rememberSettings(settings)
	watcher.logger.Info().
		Dur("work", settings.WorkDuration).
		Dur("short_break", settings.ShortBreakDuration).
		Dur("long_break", settings.LongBreakDuration).
		Int("long_break_interval", settings.LongBreakInterval).
		Msg("settings reloaded from disk")
	watcher.onChange(settings)
}
