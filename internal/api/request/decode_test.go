package request

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pixelcanvas/internal/model"
)

func TestDecodePlacePixel(t *testing.T) {
	var req PlacePixelRequest
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"x":0,"y":3,"color":"#FF0000"}`))
	require.NoError(t, Decode(r, &req))
	assert.Equal(t, 0, *req.X)
	assert.Equal(t, 3, *req.Y)
	assert.Equal(t, "#FF0000", req.Color)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		dst     any
		wantMsg string
	}{
		{"malformed json", `{"x":`, &PlacePixelRequest{}, "invalid request body"},
		{"missing y", `{"x":1,"color":"#FFFFFF"}`, &PlacePixelRequest{}, "y is required"},
		{"missing color", `{"x":1,"y":1}`, &PlacePixelRequest{}, "color is required"},
		{"short password", `{"name":"alice","password":"ab"}`, &RegisterRequest{}, "password must be at least 4 characters"},
		{"long name", `{"name":"` + strings.Repeat("a", 33) + `","password":"secret"}`, &RegisterRequest{}, "name must be at most 32 characters"},
		{"zero minutes", `{"user_id":"u","minutes":0}`, &TimeoutRequest{}, "minutes is required"},
		{"negative minutes", `{"user_id":"u","minutes":-5}`, &TimeoutRequest{}, "minutes must be greater than 0"},
		{"missing flag", `{"user_id":"u"}`, &SetModeratorRequest{}, "is_moderator is required"},
		{"missing user", `{}`, &TargetRequest{}, "user_id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			err := Decode(r, tt.dst)
			var invalid *ErrInvalid
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Message, tt.wantMsg)
		})
	}
}

func TestTimeoutBoundMatchesModel(t *testing.T) {
	var req TimeoutRequest
	body := fmt.Sprintf(`{"user_id":"u","minutes":%d}`, model.MaxTimeoutMinutes)
	require.NoError(t, Decode(httptest.NewRequest("POST", "/", strings.NewReader(body)), &req))

	body = fmt.Sprintf(`{"user_id":"u","minutes":%d}`, model.MaxTimeoutMinutes+1)
	var invalid *ErrInvalid
	assert.ErrorAs(t, Decode(httptest.NewRequest("POST", "/", strings.NewReader(body)), &req), &invalid)
}

func TestSetModeratorFalseIsPresent(t *testing.T) {
	var req SetModeratorRequest
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"user_id":"u","is_moderator":false}`))
	require.NoError(t, Decode(r, &req))
	assert.False(t, *req.IsModerator)
}
