package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{model.ErrInvalidColor, http.StatusBadRequest, CodeInvalidColor},
		{fmt.Errorf("%w: (9, 9)", model.ErrOutOfBounds), http.StatusBadRequest, CodeOutOfBounds},
		{model.ErrInvalidTimeout, http.StatusBadRequest, CodeInvalidRequest},
		{auth.ErrPasswordTooLong, http.StatusBadRequest, CodeInvalidRequest},
		{model.ErrNotAuthenticated, http.StatusUnauthorized, CodeUnauthorized},
		{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
		{model.ErrInvalidCredential, http.StatusUnauthorized, CodeInvalidCredentials},
		{&model.ForbiddenError{Reason: model.ReasonBanned}, http.StatusForbidden, CodeForbidden},
		{model.ErrProtectedActor, http.StatusForbidden, CodeProtectedActor},
		{model.ErrActorNotFound, http.StatusNotFound, CodeActorNotFound},
		{model.ErrDuplicateName, http.StatusConflict, CodeNameTaken},
		{model.ErrInternalInconsistency, http.StatusInternalServerError, CodeInternalError},
		{fmt.Errorf("something else"), http.StatusInternalServerError, CodeInternalError},
		{NewInvalidRequestError("bad"), http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantStatus, Status(tt.err))
		})
	}
}

func TestForbiddenCarriesExpiry(t *testing.T) {
	until := time.Date(2024, 1, 1, 12, 10, 0, 0, time.UTC)
	rec := httptest.NewRecorder()
	WriteError(rec, &model.ForbiddenError{Reason: model.ReasonTimedOut, Until: &until})

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, model.ReasonTimedOut, body.Error.Reason)
	require.NotNil(t, body.Error.Until)
	assert.True(t, until.Equal(*body.Error.Until))
	assert.Contains(t, body.Error.Message, "2024-01-01T12:10:00Z")
}
