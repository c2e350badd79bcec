// Package history is the append-only record of every accepted pixel
// mutation.
package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/pixelcanvas/internal/model"
)

// Log is an in-memory append-only history. Records are ordered by Seq and
// their timestamps never decrease.
type Log struct {
	mu       sync.RWMutex
	records  []model.HistoryRecord
	byActor  map[model.ActorID]int
	lastSeq  int64
	lastTime time.Time
}

// New creates an empty log
func New() *Log {
	return &Log{
		byActor: make(map[model.ActorID]int),
	}
}

// Append assigns the next sequence number and stores the record. A
// timestamp earlier than the previous record is clamped to it.
func (l *Log) Append(coord model.Coordinate, color model.Color, actorID model.ActorID, ts time.Time) model.HistoryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ts.Before(l.lastTime) {
		ts = l.lastTime
	}
	l.lastSeq++
	rec := model.HistoryRecord{
		Seq:       l.lastSeq,
		Coord:     coord,
		Color:     color,
		ActorID:   actorID,
		Timestamp: ts,
	}
	l.push(rec)
	return rec
}

// Restore appends a previously persisted record verbatim
func (l *Log) Restore(rec model.HistoryRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.Seq <= l.lastSeq {
		return fmt.Errorf("%w: history seq %d after %d", model.ErrInternalInconsistency, rec.Seq, l.lastSeq)
	}
	if rec.Timestamp.Before(l.lastTime) {
		return fmt.Errorf("%w: history seq %d goes back in time", model.ErrInternalInconsistency, rec.Seq)
	}
	l.lastSeq = rec.Seq
	l.push(rec)
	return nil
}

func (l *Log) push(rec model.HistoryRecord) {
	l.lastTime = rec.Timestamp
	l.records = append(l.records, rec)
	if !rec.IsAnonymous() {
		l.byActor[rec.ActorID]++
	}
}

// Recent returns up to n records, newest first
func (l *Log) Recent(n int) []model.HistoryRecord {
	if n <= 0 {
		return []model.HistoryRecord{}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.records) {
		n = len(l.records)
	}
	result := make([]model.HistoryRecord, 0, n)
	for i := len(l.records) - 1; i >= len(l.records)-n; i-- {
		result = append(result, l.records[i])
	}
	return result
}

// All returns every record, oldest first
func (l *Log) All() []model.HistoryRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]model.HistoryRecord, len(l.records))
	copy(result, l.records)
	return result
}

// Since returns up to limit records with Seq greater than seq, oldest first.
// limit <= 0 means no limit.
func (l *Log) Since(seq int64, limit int) []model.HistoryRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Seqs are strictly increasing but may have gaps after a restore,
	// so search rather than index.
	lo, hi := 0, len(l.records)
	for lo < hi {
		mid := (lo + hi) / 2
		if l.records[mid].Seq <= seq {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	tail := l.records[lo:]
	if limit > 0 && len(tail) > limit {
		tail = tail[:limit]
	}
	result := make([]model.HistoryRecord, len(tail))
	copy(result, tail)
	return result
}

// CountByActor returns how many records are attributed to the actor
func (l *Log) CountByActor(id model.ActorID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byActor[id]
}

// Len returns the total number of records
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// LastSeq returns the sequence number of the newest record, or 0
func (l *Log) LastSeq() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastSeq
}
