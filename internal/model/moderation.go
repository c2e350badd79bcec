package model

import "fmt"

// ModerationAction identifies an administrative action on another actor
type ModerationAction string

const (
	ActionBan          ModerationAction = "ban"
	ActionUnban        ModerationAction = "unban"
	ActionTimeout      ModerationAction = "timeout"
	ActionClearTimeout ModerationAction = "clear_timeout"
	ActionSetModerator ModerationAction = "set_moderator"
)

// Valid returns true for known actions
func (a ModerationAction) Valid() bool {
	switch a {
	case ActionBan, ActionUnban, ActionTimeout, ActionClearTimeout, ActionSetModerator:
		return true
	default:
		return false
	}
}

// ParseModerationAction converts a wire name to an action
func ParseModerationAction(s string) (ModerationAction, error) {
	a := ModerationAction(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidModerationAction, s)
	}
	return a, nil
}

// MaxTimeoutMinutes caps a single timeout at one week. Keep in sync with the
// lte tag on request.TimeoutRequest.
const MaxTimeoutMinutes = 7 * 24 * 60

// ModerationParams carries action-specific arguments
type ModerationParams struct {
	Minutes     int  // ActionTimeout
	IsModerator bool // ActionSetModerator
}
