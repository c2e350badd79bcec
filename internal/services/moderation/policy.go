// Package moderation holds the stateless authorization rules for pixel
// placement and administrative actions. Every function here is a pure
// function of its arguments.
package moderation

import (
	"time"

	"github.com/mcoot/pixelcanvas/internal/model"
)

// Decision is the outcome of a placement check
type Decision struct {
	Allowed bool
	Reason  string     // model.ReasonBanned or model.ReasonTimedOut when denied
	Until   *time.Time // expiry for timed-out actors
}

// Err converts a denial into a *model.ForbiddenError, or nil if allowed
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &model.ForbiddenError{Reason: d.Reason, Until: d.Until}
}

// CanPlacePixel decides whether the actor may place a pixel at now.
// A timeout only blocks while it is strictly after now.
func CanPlacePixel(actor model.Actor, now time.Time) Decision {
	if actor.Banned {
		return Decision{Reason: model.ReasonBanned}
	}
	if actor.IsTimedOut(now) {
		until := *actor.TimeoutUntil
		return Decision{Reason: model.ReasonTimedOut, Until: &until}
	}
	return Decision{Allowed: true}
}

// CanModerate decides whether caller may perform action on target
func CanModerate(caller, target model.Actor, action model.ModerationAction) bool {
	switch action {
	case model.ActionBan, model.ActionTimeout, model.ActionUnban, model.ActionClearTimeout:
		return caller.IsPrivileged() && !target.IsAdmin
	case model.ActionSetModerator:
		return caller.IsAdmin
	default:
		return false
	}
}

// IsProtected reports whether the action can never be applied to target
// regardless of who asks
func IsProtected(target model.Actor, action model.ModerationAction) bool {
	return target.IsAdmin && (action == model.ActionBan || action == model.ActionTimeout)
}
