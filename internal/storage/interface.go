package storage

import (
	"context"

	"github.com/mcoot/pixelcanvas/internal/model"
)

// Storage defines the interface for durable canvas state. The grid itself is
// never stored; it is rebuilt by replaying history.
type Storage interface {
	// Actor operations. SaveActors upserts by ID.
	SaveActors(ctx context.Context, actors []model.Actor) error
	ListActors(ctx context.Context) ([]model.Actor, error)

	// History operations. AppendHistory ignores records whose Seq is already
	// stored, so a retried flush never duplicates entries. ListHistory returns
	// records with Seq > afterSeq in Seq order; limit <= 0 means no limit.
	AppendHistory(ctx context.Context, records []model.HistoryRecord) error
	ListHistory(ctx context.Context, afterSeq int64, limit int) ([]model.HistoryRecord, error)

	Close() error
}
