package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/pixelcanvas/internal/api/middleware"
	"github.com/mcoot/pixelcanvas/internal/api/request"
	"github.com/mcoot/pixelcanvas/internal/api/response"
	"github.com/mcoot/pixelcanvas/internal/dependencies/clock"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
)

const (
	// DefaultHistoryLimit applies when the limit query parameter is absent
	DefaultHistoryLimit = 100
	// MaxHistoryLimit caps a single history page
	MaxHistoryLimit = 1000
)

// CanvasHandler handles canvas endpoints
type CanvasHandler struct {
	canvasService *canvas.Service
	clock         clock.Clock
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(canvasService *canvas.Service, clock clock.Clock) *CanvasHandler {
	return &CanvasHandler{
		canvasService: canvasService,
		clock:         clock,
	}
}

// Get handles GET /api/v1/canvas
func (h *CanvasHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.CanvasFromState(h.canvasService.Snapshot()))
}

// Place handles POST /api/v1/pixel. Anonymous callers reach the service
// and are rejected there.
func (h *CanvasHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req request.PlacePixelRequest
	if !decode(w, r, &req) {
		return
	}

	actorID := middleware.GetActorID(r.Context())
	result, err := h.canvasService.ApplyMutation(r.Context(), actorID, *req.X, *req.Y, req.Color, h.clock.Now())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PixelFromResult(result))
}

// History handles GET /api/v1/history?since=&limit=
func (h *CanvasHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var since int64
	if v := q.Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("since must be a non-negative integer"))
			return
		}
		since = n
	}

	limit := DefaultHistoryLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = min(n, MaxHistoryLimit)
	}

	records := h.canvasService.History(since, limit)
	response.JSON(w, http.StatusOK, response.HistoryFromModel(records, since))
}
