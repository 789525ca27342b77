package animation

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type iconLog struct {
	mu    sync.Mutex
	names []string
}

func (log *iconLog) update(resource fyne.Resource) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.names = append(log.names, resource.Name())
}

func (log *iconLog) snapshot() []string {
	log.mu.Lock()
	defer log.mu.Unlock()
	return append([]string(nil), log.names...)
}

func testSpec() FlashSpec {
	return FlashSpec{
		Ended: fyne.NewStaticResource("ended", nil),
		Next:  fyne.NewStaticResource("next", nil),
	}
}

func TestFlashAlternatesAndSettlesOnNext(t *testing.T) {
	log := &iconLog{}
	engine := New(Config{
		Cycles:      2,
		OnDuration:  Range{Min: time.Millisecond},
		OffDuration: Range{Min: time.Millisecond},
	}, log.update)

	engine.Flash(context.Background(), testSpec())
	require.Eventually(t, func() bool { return len(log.snapshot()) == 5 }, time.Second, 5*time.Millisecond)
	engine.Stop()

	assert.Equal(t, []string{"next", "ended", "next", "ended", "next"}, log.snapshot())
}

func TestStopInterruptsFlash(t *testing.T) {
	log := &iconLog{}
	engine := New(Config{
		Cycles:      3,
		OnDuration:  Range{Min: time.Hour},
		OffDuration: Range{Min: time.Hour},
	}, log.update)

	engine.Flash(context.Background(), testSpec())
	require.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	engine.Stop()

	names := log.snapshot()
	assert.Equal(t, "next", names[len(names)-1])
}

func TestRangeRandomStaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	value := Range{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond}
	for range 50 {
		sample := value.Random(rng)
		assert.GreaterOrEqual(t, sample, value.Min)
		assert.Less(t, sample, value.Max)
	}
	assert.Equal(t, value.Min, Range{Min: value.Min}.Random(rng))
}
