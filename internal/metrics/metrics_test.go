package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementRejectedByReason(t *testing.T) {
	before := testutil.ToFloat64(placementRejections.WithLabelValues("banned"))
	PlacementRejected("banned")
	PlacementRejected("banned")
	assert.Equal(t, before+2, testutil.ToFloat64(placementRejections.WithLabelValues("banned")))
}

func TestJournalFlushed(t *testing.T) {
	okBefore := testutil.ToFloat64(journalFlushes.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(journalFlushes.WithLabelValues("error"))
	recBefore := testutil.ToFloat64(journalRecords)

	JournalFlushed(5, nil)
	JournalFlushed(3, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(journalFlushes.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(journalFlushes.WithLabelValues("error")))
	assert.Equal(t, recBefore+5, testutil.ToFloat64(journalRecords))
}

func TestHandlerExposesCollectors(t *testing.T) {
	PixelPlaced()
	ModerationApplied("ban")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pixelcanvas_canvas_pixels_placed_total")
	assert.Contains(t, string(body), `pixelcanvas_moderation_actions_total{action="ban"}`)
}
