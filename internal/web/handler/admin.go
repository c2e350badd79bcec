package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/pixelcanvas/internal/api/apierr"
	"github.com/mcoot/pixelcanvas/internal/dependencies/clock"
	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
	"github.com/mcoot/pixelcanvas/internal/web/middleware"
	"github.com/mcoot/pixelcanvas/internal/web/templates/layout"
	"github.com/mcoot/pixelcanvas/internal/web/templates/pages"
)

// AdminHandler handles the moderation dashboard
type AdminHandler struct {
	canvasService *canvas.Service
	clock         clock.Clock
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(canvasService *canvas.Service, clock clock.Clock) *AdminHandler {
	return &AdminHandler{
		canvasService: canvasService,
		clock:         clock,
	}
}

// Dashboard renders the dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	data := pages.AdminData{
		PageData: layout.PageData{
			Title: "Dashboard",
			Actor: actor,
			Flash: middleware.GetFlash(r.Context()),
		},
		Dashboard:         h.canvasService.AdminDashboard(h.clock.Now(), canvas.DashboardOptions{}),
		CanGrantModerator: actor.IsAdmin,
	}

	render(w, r, pages.Admin(data))
}

// Moderate handles a moderation form and redirects back to the dashboard
func (h *AdminHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	action, err := model.ParseModerationAction(r.PostFormValue("action"))
	if err != nil {
		redirectWithError(w, r, "/admin", err)
		return
	}
	targetID := model.ActorID(r.PostFormValue("user_id"))

	var params model.ModerationParams
	switch action {
	case model.ActionTimeout:
		minutes, err := strconv.Atoi(r.PostFormValue("minutes"))
		if err != nil {
			redirectWithError(w, r, "/admin", apierr.NewInvalidRequestError("minutes must be a whole number"))
			return
		}
		params.Minutes = minutes
	case model.ActionSetModerator:
		params.IsModerator = r.PostFormValue("is_moderator") == "true"
	}

	result, err := h.canvasService.ApplyModerationAction(r.Context(), actor.ID, targetID, action, params, h.clock.Now())
	if err != nil {
		redirectWithError(w, r, "/admin", err)
		return
	}

	middleware.SetFlash(w, "success", result.Message)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
