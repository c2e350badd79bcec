package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	actors  map[model.ActorID]model.Actor
	history []model.HistoryRecord // sorted by Seq
	seqs    map[int64]struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		actors: make(map[model.ActorID]model.Actor),
		seqs:   make(map[int64]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Actor operations

func (s *Storage) SaveActors(ctx context.Context, actors []model.Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actors {
		s.actors[a.ID] = a.Clone()
	}
	return nil
}

func (s *Storage) ListActors(ctx context.Context) ([]model.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.Actor, 0, len(s.actors))
	for _, a := range s.actors {
		result = append(result, a.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// History operations

func (s *Storage) AppendHistory(ctx context.Context, records []model.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := false
	for _, r := range records {
		if _, ok := s.seqs[r.Seq]; ok {
			continue
		}
		s.seqs[r.Seq] = struct{}{}
		s.history = append(s.history, r)
		added = true
	}
	if added {
		sort.Slice(s.history, func(i, j int) bool {
			return s.history[i].Seq < s.history[j].Seq
		})
	}
	return nil
}

func (s *Storage) ListHistory(ctx context.Context, afterSeq int64, limit int) ([]model.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := sort.Search(len(s.history), func(i int) bool {
		return s.history[i].Seq > afterSeq
	})
	tail := s.history[start:]
	if limit > 0 && len(tail) > limit {
		tail = tail[:limit]
	}
	result := make([]model.HistoryRecord, len(tail))
	copy(result, tail)
	return result, nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
