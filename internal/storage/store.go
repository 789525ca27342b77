// Package storage persists settings and timer snapshots as YAML files in the
// user's configuration directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"focusdash/internal/core/model"
)

// Store reads and writes settings.yaml and state.yaml inside one directory.
type Store struct {
	dir    string
	logger zerolog.Logger
	now    func() time.Time

	mu            sync.Mutex
	savedSettings *model.Settings
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "storage").Logger(),
		now:    time.Now,
	}
}

// Dir returns the directory the store writes to.
func (store *Store) Dir() string {
	return store.dir
}

// SettingsPath returns the full path of settings.yaml.
func (store *Store) SettingsPath() string {
	return filepath.Join(store.dir, settingsFileName)
}

// StatePath returns the full path of state.yaml.
func (store *Store) StatePath() string {
	return filepath.Join(store.dir, stateFileName)
}

// LoadSettings reads settings.yaml, falling back to defaults for a missing file
// or missing fields.
func (store *Store) LoadSettings() (model.Settings, error) {
	return readSettings(store.SettingsPath())
}

// Load restores the last snapshot. The boolean is false when no usable state
// was found, in which case the snapshot holds the loaded settings and a fresh
// work countdown. Malformed files are logged, never returned as errors.
func (store *Store) Load() (model.Snapshot, bool) {
	settings, err := store.LoadSettings()
	if err != nil {
		store.logger.Warn().Err(err).Str("path", store.SettingsPath()).Msg("settings unreadable, using defaults")
		settings = model.DefaultSettings()
	} else {
		store.rememberSettings(settings)
	}

	fresh := model.Snapshot{Settings: settings, Timer: model.NewTimerState(settings)}

	rawData, err := os.ReadFile(store.StatePath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			store.logger.Warn().Err(err).Str("path", store.StatePath()).Msg("read state file")
		}
		return fresh, false
	}

	snapshot, err := decodeState(rawData, settings)
	if err != nil {
		store.logger.Warn().Err(err).Str("path", store.StatePath()).Msg("state file malformed, starting fresh")
		return fresh, false
	}
	return snapshot, true
}

// Save writes the snapshot. settings.yaml is only rewritten when the settings changed.
func (store *Store) Save(snapshot model.Snapshot) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if store.settingsChanged(snapshot.Settings) {
		serialized, err := encodeSettings(snapshot.Settings)
		if err != nil {
			return err
		}
		// Remembered before writing so the settings watcher ignores this write.
		store.rememberSettings(snapshot.Settings)
		if err := writeFileAtomic(store.SettingsPath(), serialized, 0o644); err != nil {
			store.forgetSettings()
			return fmt.Errorf("write settings file: %w", err)
		}
	}

	serialized, err := encodeState(snapshot, store.now())
	if err != nil {
		return err
	}
	if err := writeFileAtomic(store.StatePath(), serialized, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

func (store *Store) settingsChanged(settings model.Settings) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.savedSettings == nil || *store.savedSettings != settings
}

func (store *Store) rememberSettings(settings model.Settings) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.savedSettings = &settings
}

func (store *Store) forgetSettings() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.savedSettings = nil
}

// ResolveDir picks the configuration directory: an explicit override, then the
// FOCUSDASH_CONFIG_DIR environment variable, then <base>/<appName>.
func ResolveDir(override, base, appName string) string {
	if override != "" {
		return override
	}
	if fromEnv := os.Getenv("FOCUSDASH_CONFIG_DIR"); fromEnv != "" {
		return fromEnv
	}
	return filepath.Join(base, appName)
}
