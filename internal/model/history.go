package model

import "time"

// HistoryRecord is an immutable log entry describing one accepted mutation
type HistoryRecord struct {
	Seq       int64 // 1-based, strictly increasing
	Coord     Coordinate
	Color     Color
	ActorID   ActorID // empty for anonymous placements
	Timestamp time.Time
}

// IsAnonymous returns true if no actor is attached to the record
func (r HistoryRecord) IsAnonymous() bool {
	return r.ActorID == ""
}
