package platform

import (
	"fmt"
	"os"
	"strings"
)

// BackgroundFlag is passed to the executable when it is launched at login so
// it starts in the tray without opening the dashboard.
const BackgroundFlag = "--background"

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// SyncAutostart registers or removes the login item so it matches enabled.
func SyncAutostart(service Service, appName string, enabled bool) error {
	if !enabled {
		return service.DisableAutostart(appName)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	return service.EnableAutostart(appName, execPath)
}

// slug turns an application name into a lowercase, dash-separated identifier.
func slug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "focusdash"
	}
	name = strings.ToLower(name)
	return strings.Join(strings.Fields(name), "-")
}
