package resources

import (
	"testing"

	"focusdash/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseIconsAreEmbedded(t *testing.T) {
	for _, phase := range model.Phases() {
		resource := PhaseIcon(phase, true)
		require.NotNil(t, resource)
		assert.Equal(t, "icons/"+string(phase)+".svg", resource.Name())
		assert.NotEmpty(t, resource.Content())
	}
}

func TestPausedIconOverridesPhase(t *testing.T) {
	assert.Equal(t, "icons/paused.svg", PhaseIcon(model.PhaseLongBreak, false).Name())
}

func TestIconCachesResources(t *testing.T) {
	first, err := Icon("work")
	require.NoError(t, err)
	second, err := Icon("work")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = Icon("missing")
	assert.Error(t, err)
}
