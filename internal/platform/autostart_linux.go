//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if appName == "" {
		return errors.New("enable autostart: app name is empty")
	}
	if execPath == "" {
		return errors.New("enable autostart: exec path is empty")
	}

	configDir, err := service.GetConfigDir()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	autostartDir := filepath.Join(configDir, "autostart")
	if err := os.MkdirAll(autostartDir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}

	entryPath := filepath.Join(autostartDir, slug(appName)+".desktop")
	if err := os.WriteFile(entryPath, []byte(desktopEntry(appName, execPath)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return errors.New("disable autostart: app name is empty")
	}

	configDir, err := service.GetConfigDir()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}

	entryPath := filepath.Join(configDir, "autostart", slug(appName)+".desktop")
	if err := os.Remove(entryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

// desktopEntry renders an XDG autostart entry. Exec values with spaces are quoted.
func desktopEntry(appName, execPath string) string {
	if strings.ContainsAny(execPath, " \t") && !strings.HasPrefix(execPath, `"`) {
		execPath = `"` + execPath + `"`
	}

	var builder strings.Builder
	builder.WriteString("[Desktop Entry]\n")
	builder.WriteString("Type=Application\n")
	fmt.Fprintf(&builder, "Name=%s\n", appName)
	fmt.Fprintf(&builder, "Comment=%s pomodoro timer\n", appName)
	fmt.Fprintf(&builder, "Exec=%s %s\n", execPath, BackgroundFlag)
	builder.WriteString("X-GNOME-Autostart-enabled=true\n")
	builder.WriteString("Terminal=false\n")
	return builder.String()
}
