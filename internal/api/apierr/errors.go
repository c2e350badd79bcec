package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Set for FORBIDDEN
	Reason string     `json:"reason,omitempty"`
	Until  *time.Time `json:"until,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidColor       = "INVALID_COLOR"
	CodeOutOfBounds        = "OUT_OF_BOUNDS"
	CodeInvalidName        = "INVALID_NAME"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeProtectedActor     = "PROTECTED_ACTOR"
	CodeActorNotFound      = "ACTOR_NOT_FOUND"
	CodeNameTaken          = "NAME_TAKEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// Describe returns the client-facing code and message for an error
func Describe(err error) APIError {
	return toHTTPError(err).apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var fe *model.ForbiddenError
	if errors.As(err, &fe) {
		apiErr := APIError{Code: CodeForbidden, Message: forbiddenMessage(fe), Reason: fe.Reason}
		if fe.Until != nil {
			until := fe.Until.UTC()
			apiErr.Until = &until
		}
		return &httpError{http.StatusForbidden, apiErr}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidColor):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidColor, Message: "Color must be of the form #RRGGBB"}}
	case errors.Is(err, model.ErrOutOfBounds):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeOutOfBounds, Message: "Coordinates are outside the canvas"}}
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidName, Message: "Name must be 1 to 32 characters"}}
	case errors.Is(err, model.ErrInvalidModerationAction), errors.Is(err, model.ErrInvalidTimeout):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: err.Error()}}
	case errors.Is(err, model.ErrNotAuthenticated):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
	case errors.Is(err, model.ErrInvalidCredential):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid name or password"}}
	case errors.Is(err, model.ErrProtectedActor):
		return &httpError{http.StatusForbidden, APIError{Code: CodeProtectedActor, Message: "Admins cannot be banned or timed out"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{Code: CodeForbidden, Message: "Not allowed"}}
	case errors.Is(err, model.ErrActorNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeActorNotFound, Message: "Actor not found"}}
	case errors.Is(err, model.ErrDuplicateName):
		return &httpError{http.StatusConflict, APIError{Code: CodeNameTaken, Message: "Name is already taken"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}
	case errors.Is(err, auth.ErrEmptyPassword):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: "Password is required"}}
	case errors.Is(err, auth.ErrPasswordTooLong):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: "Password must be at most 72 bytes"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

func forbiddenMessage(fe *model.ForbiddenError) string {
	switch fe.Reason {
	case model.ReasonBanned:
		return "You are banned from placing pixels"
	case model.ReasonTimedOut:
		return "You are timed out until " + fe.Until.UTC().Format(time.RFC3339)
	default:
		return "You are not allowed to perform this action"
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewForbiddenError creates a forbidden error for role checks
func NewForbiddenError(message string) error {
	return &httpError{http.StatusForbidden, APIError{Code: CodeForbidden, Message: message, Reason: model.ReasonInsufficient}}
}

// NewNotFoundError creates a route-not-found error
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
