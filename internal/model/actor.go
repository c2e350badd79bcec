package model

import "time"

// ActorID uniquely identifies an actor across the system
type ActorID string

// Actor is a registered identity that can place pixels and, if privileged,
// moderate others
type Actor struct {
	ID             ActorID
	Name           string // unique display name
	CredentialHash string // opaque to the core, owned by the auth collaborator

	// Roles
	IsAdmin     bool
	IsModerator bool

	// Moderation state
	Banned       bool
	TimeoutUntil *time.Time

	// Counters
	PixelsPlaced int
	CreatedAt    time.Time
	LastActivity time.Time
}

// IsPrivileged returns true for admins and moderators
func (a *Actor) IsPrivileged() bool {
	return a.IsAdmin || a.IsModerator
}

// IsTimedOut returns true if a timeout is set and has not yet expired at now
func (a *Actor) IsTimedOut(now time.Time) bool {
	return a.TimeoutUntil != nil && a.TimeoutUntil.After(now)
}

// Clone returns a deep copy of the actor
func (a Actor) Clone() Actor {
	if a.TimeoutUntil != nil {
		t := *a.TimeoutUntil
		a.TimeoutUntil = &t
	}
	return a
}
