package request

// PlacePixelRequest is the request body for placing a pixel. Pointers
// distinguish a missing coordinate from zero.
type PlacePixelRequest struct {
	X     *int   `json:"x" validate:"required"`
	Y     *int   `json:"y" validate:"required"`
	Color string `json:"color" validate:"required"`
}

// RegisterRequest is the request body for registering an actor
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=32"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TargetRequest is the request body for moderation actions that only name a target
type TargetRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// TimeoutRequest is the request body for timing out an actor
type TimeoutRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Minutes int    `json:"minutes" validate:"required,gt=0,lte=10080"`
}

// SetModeratorRequest is the request body for granting or revoking moderator
type SetModeratorRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	IsModerator *bool  `json:"is_moderator" validate:"required"`
}
