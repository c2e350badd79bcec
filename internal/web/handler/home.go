package handler

import (
	"net/http"

	"github.com/mcoot/pixelcanvas/internal/services/canvas"
	"github.com/mcoot/pixelcanvas/internal/web/middleware"
	"github.com/mcoot/pixelcanvas/internal/web/templates/layout"
	"github.com/mcoot/pixelcanvas/internal/web/templates/pages"
)

// DefaultPollInterval is how often the canvas page refreshes, in milliseconds
const DefaultPollInterval = 200

// HomeHandler handles the canvas page
type HomeHandler struct {
	canvasService *canvas.Service
	pollInterval  int
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(canvasService *canvas.Service, pollIntervalMS int) *HomeHandler {
	if pollIntervalMS <= 0 {
		pollIntervalMS = DefaultPollInterval
	}
	return &HomeHandler{
		canvasService: canvasService,
		pollInterval:  pollIntervalMS,
	}
}

// Home renders the canvas page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.CanvasData{
		PageData: layout.PageData{
			Title: "Canvas",
			Actor: middleware.GetActor(r.Context()),
			Flash: middleware.GetFlash(r.Context()),
		},
		Width:          h.canvasService.Width(),
		Height:         h.canvasService.Height(),
		PollIntervalMS: h.pollInterval,
	}

	render(w, r, pages.Canvas(data))
}
