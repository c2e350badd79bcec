package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/pixelcanvas/internal/api/apierr"
	"github.com/mcoot/pixelcanvas/internal/api/request"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decode reads and validates a request body, writing a 400 on failure.
// Returns false when the handler should stop.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := request.Decode(r, dst)
	if err == nil {
		return true
	}
	var invalid *request.ErrInvalid
	if errors.As(err, &invalid) {
		WriteError(w, NewInvalidRequestError(invalid.Message))
		return false
	}
	WriteError(w, err)
	return false
}
