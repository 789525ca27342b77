package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains flash timing values.
type Config struct {
	Cycles      int
	OnDuration  Range
	OffDuration Range
}

// Engine flashes the tray icon. Only one flash runs at a time.
type Engine struct {
	mu         sync.Mutex
	config     Config
	updateIcon func(fyne.Resource)
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	rng        *rand.Rand
}

// New creates a new animation engine.
func New(config Config, updateIcon func(fyne.Resource)) *Engine {
	return &Engine{
		config:     config,
		updateIcon: updateIcon,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Flash starts a flash sequence, replacing any running one.
func (engine *Engine) Flash(ctx context.Context, spec FlashSpec) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	engine.cancel = cancel
	config := engine.config
	onDurations, offDurations := engine.sampleLocked(config)
	engine.mu.Unlock()

	engine.wg.Add(1)
	go func() {
		defer engine.wg.Done()
		defer cancel()
		engine.run(runCtx, spec, onDurations, offDurations)
	}()
}

// Stop terminates any active flash and waits for it to exit.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.mu.Unlock()
	engine.wg.Wait()
}

func (engine *Engine) sampleLocked(config Config) ([]time.Duration, []time.Duration) {
	onDurations := make([]time.Duration, 0, config.Cycles)
	offDurations := make([]time.Duration, 0, config.Cycles)
	for range config.Cycles {
		onDurations = append(onDurations, config.OnDuration.Random(engine.rng))
		offDurations = append(offDurations, config.OffDuration.Random(engine.rng))
	}
	return onDurations, offDurations
}

func (engine *Engine) run(ctx context.Context, spec FlashSpec, onDurations, offDurations []time.Duration) {
	// Whatever happens, the icon ends on the new phase.
	defer engine.updateIcon(spec.Next)

	for cycle := range onDurations {
		engine.updateIcon(spec.Next)
		if !sleepWithContext(ctx, onDurations[cycle]) {
			return
		}
		engine.updateIcon(spec.Ended)
		if !sleepWithContext(ctx, offDurations[cycle]) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
