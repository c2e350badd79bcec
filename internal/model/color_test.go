package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#FFFFFF", want: 0xFFFFFF},
		{in: "#ff0000", want: 0xFF0000},
		{in: "#00Ff00", want: 0x00FF00},
		{in: "#000000", want: 0},
		{in: "FFFFFF", wantErr: true},
		{in: "#FFF", wantErr: true},
		{in: "#FFFFFFF", wantErr: true},
		{in: "#GGGGGG", wantErr: true},
		{in: "#+FFFFF", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorHexIsUpperCase(t *testing.T) {
	c := MustParseColor("#ab12cd")
	assert.Equal(t, "#AB12CD", c.Hex())
	assert.Equal(t, "#FFFFFF", DefaultColor.Hex())
	assert.Equal(t, "#000000", Color(0).Hex())
}

func TestColorRGB(t *testing.T) {
	r, g, b := MustParseColor("#102030").RGB()
	assert.Equal(t, uint8(0x10), r)
	assert.Equal(t, uint8(0x20), g)
	assert.Equal(t, uint8(0x30), b)
}

func TestForbiddenErrorMatchesSentinel(t *testing.T) {
	until := time.Date(2024, 1, 1, 12, 10, 0, 0, time.UTC)
	err := error(&ForbiddenError{Reason: ReasonTimedOut, Until: &until})

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Contains(t, err.Error(), "2024-01-01T12:10:00Z")

	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonTimedOut, fe.Reason)
}

func TestParseModerationAction(t *testing.T) {
	a, err := ParseModerationAction("ban")
	require.NoError(t, err)
	assert.Equal(t, ActionBan, a)

	_, err = ParseModerationAction("delete")
	assert.ErrorIs(t, err, ErrInvalidModerationAction)
}

func TestActorCloneCopiesTimeout(t *testing.T) {
	until := time.Now()
	a := Actor{ID: "a", TimeoutUntil: &until}
	clone := a.Clone()
	*clone.TimeoutUntil = until.Add(time.Hour)
	assert.Equal(t, until, *a.TimeoutUntil)
}
