// Package journal persists committed canvas changes to storage in the
// background and rebuilds in-memory state from storage on startup.
package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/pixelcanvas/internal/metrics"
	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/actors"
	"github.com/mcoot/pixelcanvas/internal/storage"
)

// Config holds journal settings
type Config struct {
	FlushInterval time.Duration
	// MaxPending wakes the flusher early once this many records are buffered
	MaxPending int
}

// DefaultConfig returns default journal configuration
func DefaultConfig() Config {
	return Config{
		FlushInterval: time.Second,
		MaxPending:    500,
	}
}

// Journal buffers committed changes in memory and writes them to storage
// without holding any canvas lock
type Journal struct {
	storage  storage.Storage
	registry *actors.Registry
	logger   *slog.Logger
	cfg      Config

	mu      sync.Mutex
	pending []model.HistoryRecord
	dirty   map[model.ActorID]struct{}

	flushMu sync.Mutex
	wake    chan struct{}
}

// New creates a journal writing to storage. Actor snapshots are read from
// registry at flush time.
func New(storage storage.Storage, registry *actors.Registry, logger *slog.Logger, cfg Config) *Journal {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultConfig().FlushInterval
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = DefaultConfig().MaxPending
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Journal{
		storage:  storage,
		registry: registry,
		logger:   logger,
		cfg:      cfg,
		dirty:    make(map[model.ActorID]struct{}),
		wake:     make(chan struct{}, 1),
	}
}

// RecordPlacement buffers a committed history record
func (j *Journal) RecordPlacement(rec model.HistoryRecord) {
	j.mu.Lock()
	j.pending = append(j.pending, rec)
	full := len(j.pending) >= j.cfg.MaxPending
	j.mu.Unlock()

	if full {
		select {
		case j.wake <- struct{}{}:
		default:
		}
	}
}

// MarkActorDirty schedules the actor's current record to be saved
func (j *Journal) MarkActorDirty(id model.ActorID) {
	j.mu.Lock()
	j.dirty[id] = struct{}{}
	j.mu.Unlock()
}

// Pending returns the number of buffered history records
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

// Flush writes everything buffered so far. On failure the buffered changes
// are kept for the next attempt.
func (j *Journal) Flush(ctx context.Context) error {
	j.flushMu.Lock()
	defer j.flushMu.Unlock()

	j.mu.Lock()
	records := j.pending
	dirty := j.dirty
	j.pending = nil
	j.dirty = make(map[model.ActorID]struct{})
	j.mu.Unlock()

	if len(records) == 0 && len(dirty) == 0 {
		return nil
	}

	// History first; actor counters are recomputed from history on restore
	err := j.storage.AppendHistory(ctx, records)
	if err == nil {
		err = j.storage.SaveActors(ctx, j.snapshotActors(dirty))
	}
	metrics.JournalFlushed(len(records), err)

	if err != nil {
		j.requeue(records, dirty)
		j.logger.ErrorContext(ctx, "journal flush failed",
			slog.Int("records", len(records)),
			slog.Int("actors", len(dirty)),
			slog.String("error", err.Error()),
		)
		return err
	}

	j.logger.DebugContext(ctx, "journal flushed",
		slog.Int("records", len(records)),
		slog.Int("actors", len(dirty)),
	)
	return nil
}

func (j *Journal) snapshotActors(dirty map[model.ActorID]struct{}) []model.Actor {
	result := make([]model.Actor, 0, len(dirty))
	for id := range dirty {
		a, err := j.registry.Get(id)
		if err != nil {
			continue
		}
		result = append(result, a)
	}
	return result
}

func (j *Journal) requeue(records []model.HistoryRecord, dirty map[model.ActorID]struct{}) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = append(records, j.pending...)
	for id := range dirty {
		j.dirty[id] = struct{}{}
	}
}

// Run flushes periodically until ctx is cancelled, then performs a final
// flush and returns its error
func (j *Journal) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			err := j.Flush(flushCtx)
			cancel()
			return err
		case <-ticker.C:
			// Flush logs and requeues on failure; the next tick retries
			_ = j.Flush(ctx)
		case <-j.wake:
			_ = j.Flush(ctx)
		}
	}
}
