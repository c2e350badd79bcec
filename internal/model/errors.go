package model

import (
	"errors"
	"fmt"
	"time"
)

// Common errors used across the application
var (
	// Validation errors
	ErrOutOfBounds  = errors.New("coordinates out of bounds")
	ErrInvalidColor = errors.New("invalid color")
	ErrInvalidName  = errors.New("invalid actor name")

	// Authorization errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrProtectedActor   = errors.New("admins cannot be banned or timed out")

	// Actor errors
	ErrActorNotFound     = errors.New("actor not found")
	ErrDuplicateName     = errors.New("name already taken")
	ErrInvalidCredential = errors.New("invalid credential")

	// Moderation errors
	ErrInvalidModerationAction = errors.New("invalid moderation action")
	ErrInvalidTimeout          = errors.New("timeout must be between 1 and 10080 minutes")

	// Internal errors
	ErrInternalInconsistency = errors.New("internal inconsistency")
)

// Reasons attached to a ForbiddenError
const (
	ReasonBanned       = "banned"
	ReasonTimedOut     = "timed-out"
	ReasonInsufficient = "insufficient-role"
)

// ForbiddenError reports why an actor was refused, with enough detail for the
// caller to know when the restriction lifts
type ForbiddenError struct {
	Reason string
	Until  *time.Time // set for timed-out
}

// Error implements error
func (e *ForbiddenError) Error() string {
	if e.Until != nil {
		return fmt.Sprintf("forbidden: %s until %s", e.Reason, e.Until.UTC().Format(time.RFC3339))
	}
	return "forbidden: " + e.Reason
}

// Is makes errors.Is(err, ErrForbidden) match
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}
