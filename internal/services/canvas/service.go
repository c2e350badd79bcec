// Package canvas orchestrates the grid, actor registry, moderation policy and
// history log into the operations exposed to clients.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/pixelcanvas/internal/metrics"
	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/actors"
	"github.com/mcoot/pixelcanvas/internal/services/grid"
	"github.com/mcoot/pixelcanvas/internal/services/history"
	"github.com/mcoot/pixelcanvas/internal/services/moderation"
)

// Recorder observes committed placements. It is called with the mutation
// lock held and must not block.
type Recorder interface {
	RecordPlacement(rec model.HistoryRecord)
}

// MutationResult echoes an accepted placement
type MutationResult struct {
	X     int
	Y     int
	Color string
	Seq   int64
}

// ModerationResult describes an applied moderation action
type ModerationResult struct {
	Action  model.ModerationAction
	Message string
	Target  model.Actor
}

// CanvasState is a full read of the grid
type CanvasState struct {
	Width  int
	Height int
	Pixels [][]string // [y][x]
}

// Service coordinates all canvas state
type Service struct {
	grid     *grid.Store
	actors   *actors.Registry
	history  *history.Log
	recorder Recorder
	logger   *slog.Logger

	// mu serializes the orchestrated mutation so each placement and moderation
	// action commits as one unit
	mu sync.Mutex
}

// New creates a canvas service over the given components
func New(grid *grid.Store, actors *actors.Registry, history *history.Log, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		grid:    grid,
		actors:  actors,
		history: history,
		logger:  logger,
	}
}

// SetRecorder attaches a recorder for committed changes. Call before serving.
func (s *Service) SetRecorder(r Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// Width returns the canvas width
func (s *Service) Width() int {
	return s.grid.Width()
}

// Height returns the canvas height
func (s *Service) Height() int {
	return s.grid.Height()
}

// ApplyMutation validates and commits a single pixel placement
func (s *Service) ApplyMutation(ctx context.Context, actorID model.ActorID, x, y int, color string, now time.Time) (MutationResult, error) {
	c, err := model.ParseColor(color)
	if err != nil {
		metrics.PlacementRejected("invalid_color")
		return MutationResult{}, err
	}

	coord := model.Coordinate{X: x, Y: y}
	if !s.grid.Contains(coord) {
		metrics.PlacementRejected("out_of_bounds")
		return MutationResult{}, fmt.Errorf("%w: (%d, %d) outside %dx%d canvas",
			model.ErrOutOfBounds, x, y, s.grid.Width(), s.grid.Height())
	}

	if actorID == "" {
		metrics.PlacementRejected("not_authenticated")
		return MutationResult{}, model.ErrNotAuthenticated
	}
	actor, err := s.actors.Get(actorID)
	if err != nil {
		metrics.PlacementRejected("not_found")
		return MutationResult{}, err
	}
	if err := s.checkPlacement(actor, now); err != nil {
		return MutationResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A moderation action may have committed since the first check
	actor, err = s.actors.Get(actorID)
	if err != nil {
		metrics.PlacementRejected("not_found")
		return MutationResult{}, err
	}
	if err := s.checkPlacement(actor, now); err != nil {
		return MutationResult{}, err
	}

	if err := s.grid.Write(coord, c); err != nil {
		return MutationResult{}, s.inconsistent(ctx, "grid write failed", actorID, err)
	}
	rec := s.history.Append(coord, c, actorID, now)
	if err := s.actors.TouchActivity(actorID, rec.Timestamp); err != nil {
		return MutationResult{}, s.inconsistent(ctx, "touch activity failed", actorID, err)
	}
	if err := s.actors.IncrementPlacedCount(actorID); err != nil {
		return MutationResult{}, s.inconsistent(ctx, "increment placed count failed", actorID, err)
	}
	if s.recorder != nil {
		s.recorder.RecordPlacement(rec)
	}

	metrics.PixelPlaced()
	s.logger.DebugContext(ctx, "pixel placed",
		slog.String("actor_id", string(actorID)),
		slog.Int("x", x),
		slog.Int("y", y),
		slog.String("color", c.Hex()),
		slog.Int64("seq", rec.Seq),
	)

	return MutationResult{X: x, Y: y, Color: c.Hex(), Seq: rec.Seq}, nil
}

func (s *Service) checkPlacement(actor model.Actor, now time.Time) error {
	decision := moderation.CanPlacePixel(actor, now)
	if !decision.Allowed {
		metrics.PlacementRejected(decision.Reason)
		return decision.Err()
	}
	return nil
}

func (s *Service) inconsistent(ctx context.Context, msg string, actorID model.ActorID, err error) error {
	metrics.PlacementRejected("internal")
	s.logger.ErrorContext(ctx, msg,
		slog.String("actor_id", string(actorID)),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %s: %v", model.ErrInternalInconsistency, msg, err)
}

// ApplyModerationAction applies an administrative action from caller to target
func (s *Service) ApplyModerationAction(
	ctx context.Context,
	callerID, targetID model.ActorID,
	action model.ModerationAction,
	params model.ModerationParams,
	now time.Time,
) (ModerationResult, error) {
	if !action.Valid() {
		return ModerationResult{}, fmt.Errorf("%w: %q", model.ErrInvalidModerationAction, action)
	}
	if callerID == "" {
		return ModerationResult{}, model.ErrNotAuthenticated
	}
	if action == model.ActionTimeout && (params.Minutes <= 0 || params.Minutes > model.MaxTimeoutMinutes) {
		return ModerationResult{}, model.ErrInvalidTimeout
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.actors.Get(callerID)
	if err != nil {
		if errors.Is(err, model.ErrActorNotFound) {
			return ModerationResult{}, model.ErrNotAuthenticated
		}
		return ModerationResult{}, err
	}
	target, err := s.actors.Get(targetID)
	if err != nil {
		return ModerationResult{}, err
	}

	if moderation.IsProtected(target, action) {
		return ModerationResult{}, model.ErrProtectedActor
	}
	if !moderation.CanModerate(caller, target, action) {
		return ModerationResult{}, &model.ForbiddenError{Reason: model.ReasonInsufficient}
	}

	var msg string
	switch action {
	case model.ActionBan:
		err = s.actors.Ban(targetID)
		msg = fmt.Sprintf("%s has been banned", target.Name)
	case model.ActionUnban:
		err = s.actors.Unban(targetID)
		msg = fmt.Sprintf("%s has been unbanned", target.Name)
	case model.ActionTimeout:
		until := now.Add(time.Duration(params.Minutes) * time.Minute)
		err = s.actors.SetTimeout(targetID, until)
		msg = fmt.Sprintf("%s has been timed out for %d minutes", target.Name, params.Minutes)
	case model.ActionClearTimeout:
		err = s.actors.ClearTimeout(targetID)
		msg = fmt.Sprintf("timeout for %s has been removed", target.Name)
	case model.ActionSetModerator:
		err = s.actors.SetModerator(targetID, params.IsModerator)
		if params.IsModerator {
			msg = fmt.Sprintf("%s is now a moderator", target.Name)
		} else {
			msg = fmt.Sprintf("%s is no longer a moderator", target.Name)
		}
	}
	if err != nil {
		return ModerationResult{}, err
	}

	updated, err := s.actors.Get(targetID)
	if err != nil {
		return ModerationResult{}, err
	}
	metrics.ModerationApplied(string(action))
	s.logger.InfoContext(ctx, "moderation action applied",
		slog.String("action", string(action)),
		slog.String("caller_id", string(callerID)),
		slog.String("target_id", string(targetID)),
	)

	return ModerationResult{Action: action, Message: msg, Target: updated}, nil
}

// Snapshot returns a consistent full read of the grid
func (s *Service) Snapshot() CanvasState {
	snap := s.grid.Snapshot()
	return CanvasState{
		Width:  snap.Width(),
		Height: snap.Height(),
		Pixels: snap.Rows(),
	}
}

// History returns up to limit records after seq, oldest first
func (s *Service) History(since int64, limit int) []model.HistoryRecord {
	return s.history.Since(since, limit)
}

// Actor returns a single actor record
func (s *Service) Actor(id model.ActorID) (model.Actor, error) {
	return s.actors.Get(id)
}

// Actors returns all actor records
func (s *Service) Actors() []model.Actor {
	return s.actors.List()
}

// VerifyCounters checks the cached per-actor placement counters against the
// history log
func (s *Service) VerifyCounters() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.actors.List() {
		logged := s.history.CountByActor(a.ID)
		if a.PixelsPlaced != logged {
			return fmt.Errorf("%w: actor %s has placed count %d but %d history records",
				model.ErrInternalInconsistency, a.ID, a.PixelsPlaced, logged)
		}
	}
	return nil
}
