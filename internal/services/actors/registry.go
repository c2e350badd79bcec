package actors

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/pixelcanvas/internal/dependencies/clock"
	"github.com/mcoot/pixelcanvas/internal/model"
)

// MaxNameLength bounds actor display names
const MaxNameLength = 32

// Registry owns all actor records
type Registry struct {
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	actors   map[model.ActorID]*model.Actor
	byName   map[string]model.ActorID
	observer func(model.ActorID)
}

// New creates an empty registry
func New(clock clock.Clock, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		clock:  clock,
		logger: logger,
		actors: make(map[model.ActorID]*model.Actor),
		byName: make(map[string]model.ActorID),
	}
}

// Observe sets a callback invoked after every committed change to an actor,
// outside the registry lock. Call before serving.
func (r *Registry) Observe(fn func(id model.ActorID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = fn
}

// Register creates a new actor. The first actor ever registered becomes
// admin and moderator.
func (r *Registry) Register(name, credentialHash string) (model.ActorID, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return "", model.ErrInvalidName
	}

	now := r.clock.Now()

	r.mu.Lock()
	if _, ok := r.byName[name]; ok {
		r.mu.Unlock()
		return "", model.ErrDuplicateName
	}

	bootstrap := len(r.actors) == 0
	actor := &model.Actor{
		ID:             model.ActorID(uuid.NewString()),
		Name:           name,
		CredentialHash: credentialHash,
		IsAdmin:        bootstrap,
		IsModerator:    bootstrap,
		CreatedAt:      now,
		LastActivity:   now,
	}
	r.actors[actor.ID] = actor
	r.byName[name] = actor.ID
	observer := r.observer
	r.mu.Unlock()

	if observer != nil {
		observer(actor.ID)
	}
	r.logger.Info("actor registered",
		slog.String("actor_id", string(actor.ID)),
		slog.String("name", name),
		slog.Bool("bootstrap_admin", bootstrap),
	)

	return actor.ID, nil
}

// Authenticate resolves a name to an actor if verify accepts the stored
// credential hash. The registry never inspects credentials itself.
func (r *Registry) Authenticate(name string, verify func(credentialHash string) bool) (model.ActorID, error) {
	r.mu.RLock()
	id, ok := r.byName[strings.TrimSpace(name)]
	var hash string
	if ok {
		hash = r.actors[id].CredentialHash
	}
	r.mu.RUnlock()

	if !ok || !verify(hash) {
		return "", model.ErrInvalidCredential
	}
	return id, nil
}

// Get returns a copy of the actor record
func (r *Registry) Get(id model.ActorID) (model.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actors[id]
	if !ok {
		return model.Actor{}, model.ErrActorNotFound
	}
	return a.Clone(), nil
}

// ByName returns a copy of the actor with the given name
func (r *Registry) ByName(name string) (model.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return model.Actor{}, model.ErrActorNotFound
	}
	return r.actors[id].Clone(), nil
}

// List returns copies of all actors ordered by creation time
func (r *Registry) List() []model.Actor {
	r.mu.RLock()
	result := make([]model.Actor, 0, len(r.actors))
	for _, a := range r.actors {
		result = append(result, a.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Count returns the number of registered actors
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actors)
}

// Restore loads previously persisted actors, replacing same-id entries.
// Used only during startup replay.
func (r *Registry) Restore(actors []model.Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range actors {
		clone := a.Clone()
		if old, ok := r.actors[clone.ID]; ok {
			delete(r.byName, old.Name)
		}
		r.actors[clone.ID] = &clone
		r.byName[clone.Name] = clone.ID
	}
}

// TouchActivity records activity at the given time
func (r *Registry) TouchActivity(id model.ActorID, at time.Time) error {
	return r.update(id, func(a *model.Actor) error {
		if at.After(a.LastActivity) {
			a.LastActivity = at
		}
		return nil
	})
}

// IncrementPlacedCount bumps the cached pixels-placed counter
func (r *Registry) IncrementPlacedCount(id model.ActorID) error {
	return r.update(id, func(a *model.Actor) error {
		a.PixelsPlaced++
		return nil
	})
}

// Ban marks the actor as banned. Admins are protected.
func (r *Registry) Ban(id model.ActorID) error {
	return r.update(id, func(a *model.Actor) error {
		if a.IsAdmin {
			return model.ErrProtectedActor
		}
		a.Banned = true
		return nil
	})
}

// Unban lifts a ban
func (r *Registry) Unban(id model.ActorID) error {
	return r.update(id, func(a *model.Actor) error {
		a.Banned = false
		return nil
	})
}

// SetTimeout blocks placements until the given time. Admins are protected.
func (r *Registry) SetTimeout(id model.ActorID, until time.Time) error {
	return r.update(id, func(a *model.Actor) error {
		if a.IsAdmin {
			return model.ErrProtectedActor
		}
		a.TimeoutUntil = &until
		return nil
	})
}

// ClearTimeout removes any timeout
func (r *Registry) ClearTimeout(id model.ActorID) error {
	return r.update(id, func(a *model.Actor) error {
		a.TimeoutUntil = nil
		return nil
	})
}

// SetModerator grants or revokes the moderator role
func (r *Registry) SetModerator(id model.ActorID, isModerator bool) error {
	return r.update(id, func(a *model.Actor) error {
		a.IsModerator = isModerator
		return nil
	})
}

// update applies fn to the stored record under the write lock.
// fn must leave the record untouched when it returns an error.
func (r *Registry) update(id model.ActorID, fn func(a *model.Actor) error) error {
	r.mu.Lock()
	a, ok := r.actors[id]
	if !ok {
		r.mu.Unlock()
		return model.ErrActorNotFound
	}
	if err := fn(a); err != nil {
		r.mu.Unlock()
		return err
	}
	observer := r.observer
	r.mu.Unlock()

	if observer != nil {
		observer(id)
	}
	return nil
}
