package storage

import (
	"sync"

	"github.com/rs/zerolog"

	"focusdash/internal/core/model"
)

// SnapshotWriter persists one snapshot.
type SnapshotWriter interface {
	Save(snapshot model.Snapshot) error
}

// Saver writes snapshots on a background goroutine. Save never blocks;
// snapshots queued while a write is in flight collapse to the latest one.
type Saver struct {
	writer SnapshotWriter
	logger zerolog.Logger

	mu      sync.Mutex
	pending *model.Snapshot
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewSaver starts the background writer.
func NewSaver(writer SnapshotWriter, logger zerolog.Logger) *Saver {
	saver := &Saver{
		writer: writer,
		logger: logger.With().Str("component", "saver").Logger(),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go saver.run()
	return saver
}

// Save queues a snapshot for writing.
func (saver *Saver) Save(snapshot model.Snapshot) {
	clone := snapshot.Clone()
	saver.mu.Lock()
	if saver.closed {
		saver.mu.Unlock()
		saver.logger.Warn().Msg("save after close dropped")
		return
	}
	saver.pending = &clone
	select {
	case saver.wake <- struct{}{}:
	default:
	}
	saver.mu.Unlock()
}

// Close writes any queued snapshot and stops the background goroutine.
func (saver *Saver) Close() {
	saver.mu.Lock()
	if saver.closed {
		saver.mu.Unlock()
		<-saver.done
		return
	}
	saver.closed = true
	close(saver.wake)
	saver.mu.Unlock()

	<-saver.done
}

func (saver *Saver) run() {
	defer close(saver.done)
	for range saver.wake {
		saver.flush()
	}
	saver.flush()
}

func (saver *Saver) flush() {
	saver.mu.Lock()
	snapshot := saver.pending
	saver.pending = nil
	saver.mu.Unlock()

	if snapshot == nil {
		return
	}
	if err := saver.writer.Save(*snapshot); err != nil {
		saver.logger.Error().Err(err).Msg("save snapshot")
		return
	}
	saver.logger.Debug().
		Str("phase", string(snapshot.Timer.Phase)).
		Int("remaining_seconds", snapshot.Timer.RemainingSeconds).
		Msg("snapshot saved")
}
