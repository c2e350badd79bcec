package response

import (
	"time"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
)

// Canvas is the full grid in API responses
type Canvas struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Pixels [][]string `json:"pixels"`
}

// CanvasFromState converts a canvas.CanvasState
func CanvasFromState(s canvas.CanvasState) Canvas {
	return Canvas{
		Width:  s.Width,
		Height: s.Height,
		Pixels: s.Pixels,
	}
}

// Pixel echoes an accepted placement
type Pixel struct {
	Success bool   `json:"success"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Color   string `json:"color"`
	Seq     int64  `json:"seq"`
}

// PixelFromResult converts a canvas.MutationResult
func PixelFromResult(r canvas.MutationResult) Pixel {
	return Pixel{
		Success: true,
		X:       r.X,
		Y:       r.Y,
		Color:   r.Color,
		Seq:     r.Seq,
	}
}

// HistoryRecord is one history entry
type HistoryRecord struct {
	Seq       int64     `json:"seq"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Color     string    `json:"color"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryRecordFromModel converts a model.HistoryRecord
func HistoryRecordFromModel(r model.HistoryRecord) HistoryRecord {
	return HistoryRecord{
		Seq:       r.Seq,
		X:         r.Coord.X,
		Y:         r.Coord.Y,
		Color:     r.Color.Hex(),
		ActorID:   string(r.ActorID),
		Timestamp: r.Timestamp,
	}
}

// HistoryRecordsFromModel converts a slice of records
func HistoryRecordsFromModel(records []model.HistoryRecord) []HistoryRecord {
	result := make([]HistoryRecord, len(records))
	for i, r := range records {
		result[i] = HistoryRecordFromModel(r)
	}
	return result
}

// History is a page of history records
type History struct {
	Records []HistoryRecord `json:"records"`
	// NextSince is the value to pass as since for the following page
	NextSince int64 `json:"next_since"`
}

// HistoryFromModel builds a page; since is echoed when the page is empty
func HistoryFromModel(records []model.HistoryRecord, since int64) History {
	next := since
	if len(records) > 0 {
		next = records[len(records)-1].Seq
	}
	return History{
		Records:   HistoryRecordsFromModel(records),
		NextSince: next,
	}
}

// Actor represents an actor in API responses. The credential hash is never
// exposed.
type Actor struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	IsAdmin      bool       `json:"is_admin"`
	IsModerator  bool       `json:"is_moderator"`
	Banned       bool       `json:"banned"`
	TimeoutUntil *time.Time `json:"timeout_until,omitempty"`
	PixelsPlaced int        `json:"pixels_placed"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity time.Time  `json:"last_activity"`
}

// ActorFromModel converts a model.Actor
func ActorFromModel(a model.Actor) Actor {
	return Actor{
		ID:           string(a.ID),
		Name:         a.Name,
		IsAdmin:      a.IsAdmin,
		IsModerator:  a.IsModerator,
		Banned:       a.Banned,
		TimeoutUntil: a.TimeoutUntil,
		PixelsPlaced: a.PixelsPlaced,
		CreatedAt:    a.CreatedAt,
		LastActivity: a.LastActivity,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Actor        Actor     `json:"actor"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session, a model.Actor) AuthResponse {
	return AuthResponse{
		Actor:        ActorFromModel(a),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Moderation is the response for moderation actions
type Moderation struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Message string `json:"message"`
	Target  Actor  `json:"target"`
}

// ModerationFromResult converts a canvas.ModerationResult
func ModerationFromResult(r canvas.ModerationResult) Moderation {
	return Moderation{
		Success: true,
		Action:  string(r.Action),
		Message: r.Message,
		Target:  ActorFromModel(r.Target),
	}
}

// ActorSummary is one dashboard row
type ActorSummary struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	PixelsPlaced int        `json:"pixels_placed"`
	IsAdmin      bool       `json:"is_admin"`
	IsModerator  bool       `json:"is_moderator"`
	Banned       bool       `json:"banned"`
	TimeoutUntil *time.Time `json:"timeout_until,omitempty"`
	LastActivity time.Time  `json:"last_activity"`
}

func actorSummaries(in []canvas.ActorSummary) []ActorSummary {
	result := make([]ActorSummary, len(in))
	for i, a := range in {
		result[i] = ActorSummary{
			ID:           string(a.ID),
			Name:         a.Name,
			PixelsPlaced: a.PixelsPlaced,
			IsAdmin:      a.IsAdmin,
			IsModerator:  a.IsModerator,
			Banned:       a.Banned,
			TimeoutUntil: a.TimeoutUntil,
			LastActivity: a.LastActivity,
		}
	}
	return result
}

// Dashboard is the admin dashboard
type Dashboard struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	TotalActors   int             `json:"total_actors"`
	TotalPixels   int             `json:"total_pixels"`
	ActiveActors  int             `json:"active_actors"`
	TopActors     []ActorSummary  `json:"top_actors"`
	RecentHistory []HistoryRecord `json:"recent_history"`
	Actors        []ActorSummary  `json:"actors"`
}

// DashboardFromModel converts a canvas.Dashboard
func DashboardFromModel(d canvas.Dashboard) Dashboard {
	return Dashboard{
		GeneratedAt:   d.GeneratedAt,
		TotalActors:   d.TotalActors,
		TotalPixels:   d.TotalPixels,
		ActiveActors:  d.ActiveActors,
		TopActors:     actorSummaries(d.TopActors),
		RecentHistory: HistoryRecordsFromModel(d.RecentHistory),
		Actors:        actorSummaries(d.Actors),
	}
}

// Health is the liveness response
type Health struct {
	Status string `json:"status"`
}
