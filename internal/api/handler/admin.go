package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/pixelcanvas/internal/api/middleware"
	"github.com/mcoot/pixelcanvas/internal/api/request"
	"github.com/mcoot/pixelcanvas/internal/api/response"
	"github.com/mcoot/pixelcanvas/internal/dependencies/clock"
	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
)

// AdminHandler handles moderation and dashboard endpoints
type AdminHandler struct {
	canvasService *canvas.Service
	clock         clock.Clock
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(canvasService *canvas.Service, clock clock.Clock) *AdminHandler {
	return &AdminHandler{
		canvasService: canvasService,
		clock:         clock,
	}
}

// Ban handles POST /api/v1/admin/ban
func (h *AdminHandler) Ban(w http.ResponseWriter, r *http.Request) {
	h.target(w, r, model.ActionBan)
}

// Unban handles POST /api/v1/admin/unban
func (h *AdminHandler) Unban(w http.ResponseWriter, r *http.Request) {
	h.target(w, r, model.ActionUnban)
}

// RemoveTimeout handles POST /api/v1/admin/remove-timeout
func (h *AdminHandler) RemoveTimeout(w http.ResponseWriter, r *http.Request) {
	h.target(w, r, model.ActionClearTimeout)
}

// Timeout handles POST /api/v1/admin/timeout
func (h *AdminHandler) Timeout(w http.ResponseWriter, r *http.Request) {
	var req request.TimeoutRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, model.ActorID(req.UserID), model.ActionTimeout, model.ModerationParams{Minutes: req.Minutes})
}

// SetModerator handles POST /api/v1/admin/set-moderator
func (h *AdminHandler) SetModerator(w http.ResponseWriter, r *http.Request) {
	var req request.SetModeratorRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, model.ActorID(req.UserID), model.ActionSetModerator, model.ModerationParams{IsModerator: *req.IsModerator})
}

// Dashboard handles GET /api/v1/admin/dashboard?top=&recent=
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var opts canvas.DashboardOptions
	q := r.URL.Query()
	for key, dst := range map[string]*int{"top": &opts.TopActors, "recent": &opts.RecentRecords} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, NewInvalidRequestError(key+" must be a positive integer"))
			return
		}
		*dst = n
	}

	d := h.canvasService.AdminDashboard(h.clock.Now(), opts)
	response.JSON(w, http.StatusOK, response.DashboardFromModel(d))
}

func (h *AdminHandler) target(w http.ResponseWriter, r *http.Request, action model.ModerationAction) {
	var req request.TargetRequest
	if !decode(w, r, &req) {
		return
	}
	h.apply(w, r, model.ActorID(req.UserID), action, model.ModerationParams{})
}

func (h *AdminHandler) apply(
	w http.ResponseWriter,
	r *http.Request,
	targetID model.ActorID,
	action model.ModerationAction,
	params model.ModerationParams,
) {
	callerID := middleware.MustGetActorID(r.Context())
	result, err := h.canvasService.ApplyModerationAction(r.Context(), callerID, targetID, action, params, h.clock.Now())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ModerationFromResult(result))
}
