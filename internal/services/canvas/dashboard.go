package canvas

import (
	"sort"
	"time"

	"github.com/mcoot/pixelcanvas/internal/model"
)

const (
	// ActiveWindow is the trailing window in which an actor counts as active
	ActiveWindow = 5 * time.Minute

	DefaultTopActors     = 10
	DefaultRecentRecords = 20
)

// DashboardOptions bounds the dashboard lists. Zero values use the defaults.
type DashboardOptions struct {
	TopActors     int
	RecentRecords int
}

// ActorSummary is one row of the dashboard leaderboard
type ActorSummary struct {
	ID           model.ActorID
	Name         string
	PixelsPlaced int
	IsAdmin      bool
	IsModerator  bool
	Banned       bool
	TimeoutUntil *time.Time
	LastActivity time.Time
}

// Dashboard aggregates canvas activity for administrators
type Dashboard struct {
	GeneratedAt   time.Time
	TotalActors   int
	TotalPixels   int
	ActiveActors  int
	TopActors     []ActorSummary
	RecentHistory []model.HistoryRecord
	Actors        []ActorSummary
}

// AdminDashboard composes read-only statistics at now. It briefly takes the
// mutation lock so the figures agree with each other.
func (s *Service) AdminDashboard(now time.Time, opts DashboardOptions) Dashboard {
	if opts.TopActors <= 0 {
		opts.TopActors = DefaultTopActors
	}
	if opts.RecentRecords <= 0 {
		opts.RecentRecords = DefaultRecentRecords
	}

	// Counters, total and recent records must come from the same commit point
	s.mu.Lock()
	all := s.actors.List()
	total := s.history.Len()
	recent := s.history.Recent(opts.RecentRecords)
	s.mu.Unlock()

	summaries := make([]ActorSummary, 0, len(all))
	active := 0
	cutoff := now.Add(-ActiveWindow)
	for _, a := range all {
		if !a.LastActivity.Before(cutoff) {
			active++
		}
		summaries = append(summaries, summarize(a))
	}

	top := make([]ActorSummary, len(summaries))
	copy(top, summaries)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].PixelsPlaced != top[j].PixelsPlaced {
			return top[i].PixelsPlaced > top[j].PixelsPlaced
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > opts.TopActors {
		top = top[:opts.TopActors]
	}

	return Dashboard{
		GeneratedAt:   now,
		TotalActors:   len(all),
		TotalPixels:   total,
		ActiveActors:  active,
		TopActors:     top,
		RecentHistory: recent,
		Actors:        summaries,
	}
}

func summarize(a model.Actor) ActorSummary {
	return ActorSummary{
		ID:           a.ID,
		Name:         a.Name,
		PixelsPlaced: a.PixelsPlaced,
		IsAdmin:      a.IsAdmin,
		IsModerator:  a.IsModerator,
		Banned:       a.Banned,
		TimeoutUntil: a.TimeoutUntil,
		LastActivity: a.LastActivity,
	}
}
