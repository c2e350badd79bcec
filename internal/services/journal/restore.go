package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/actors"
	"github.com/mcoot/pixelcanvas/internal/services/grid"
	"github.com/mcoot/pixelcanvas/internal/services/history"
	"github.com/mcoot/pixelcanvas/internal/storage"
)

// DefaultBatchSize is the number of history records read per storage call
const DefaultBatchSize = 1000

// RestoreStats summarizes a replay
type RestoreStats struct {
	Actors  int
	Records int
	// Skipped counts records that fall outside the current canvas bounds.
	// They stay in the history but do not touch the grid.
	Skipped int
}

// Restore loads actors and history from storage and replays history in
// sequence order onto the grid. The in-memory components must be empty. The
// final grid is identical for any batch size.
func Restore(
	ctx context.Context,
	store storage.Storage,
	registry *actors.Registry,
	log *history.Log,
	g *grid.Store,
	batchSize int,
	logger *slog.Logger,
) (RestoreStats, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if registry.Count() != 0 || log.Len() != 0 {
		return RestoreStats{}, errors.New("restore requires an empty registry and history")
	}

	stored, err := store.ListActors(ctx)
	if err != nil {
		return RestoreStats{}, fmt.Errorf("listing actors: %w", err)
	}

	var stats RestoreStats
	counts := make(map[model.ActorID]int)
	lastSeen := make(map[model.ActorID]model.HistoryRecord)
	after := int64(0)
	for {
		batch, err := store.ListHistory(ctx, after, batchSize)
		if err != nil {
			return stats, fmt.Errorf("listing history after %d: %w", after, err)
		}
		for _, rec := range batch {
			if err := log.Restore(rec); err != nil {
				return stats, err
			}
			if err := g.Write(rec.Coord, rec.Color); err != nil {
				stats.Skipped++
			}
			if !rec.IsAnonymous() {
				counts[rec.ActorID]++
				lastSeen[rec.ActorID] = rec
			}
			stats.Records++
			after = rec.Seq
		}
		if len(batch) < batchSize {
			break
		}
	}

	// History is authoritative for the cached counters
	for i := range stored {
		a := &stored[i]
		a.PixelsPlaced = counts[a.ID]
		if rec, ok := lastSeen[a.ID]; ok && rec.Timestamp.After(a.LastActivity) {
			a.LastActivity = rec.Timestamp
		}
	}
	registry.Restore(stored)
	stats.Actors = len(stored)

	if stats.Skipped > 0 {
		logger.WarnContext(ctx, "history records outside canvas bounds",
			slog.Int("skipped", stats.Skipped),
			slog.Int("width", g.Width()),
			slog.Int("height", g.Height()),
		)
	}
	logger.InfoContext(ctx, "canvas restored",
		slog.Int("actors", stats.Actors),
		slog.Int("records", stats.Records),
	)
	return stats, nil
}
