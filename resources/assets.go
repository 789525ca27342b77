package resources

import (
	"embed"
	"fmt"
	"sync"

	"focusdash/internal/core/model"

	"fyne.io/fyne/v2"
)

const iconDir = "icons/"

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the named icon (without extension).
func Icon(name string) (fyne.Resource, error) {
	return loadResource(iconFS, iconDir+name+".svg", &iconCache)
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(name string) fyne.Resource {
	resource, err := Icon(name)
	if err != nil {
		panic(err)
	}
	return resource
}

// AppIcon is the application and window icon.
func AppIcon() fyne.Resource {
	return MustIcon(string(model.PhaseWork))
}

// PhaseIcon returns the tray icon for a phase. Paused timers share one icon.
func PhaseIcon(phase model.Phase, running bool) fyne.Resource {
	if !running {
		return MustIcon("paused")
	}
	if !phase.Valid() {
		phase = model.PhaseWork
	}
	return MustIcon(string(phase))
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
