package handler

import (
	"net/http"

	"github.com/mcoot/pixelcanvas/internal/api/middleware"
	"github.com/mcoot/pixelcanvas/internal/api/request"
	"github.com/mcoot/pixelcanvas/internal/api/response"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
)

// ActorHandler handles actor account endpoints
type ActorHandler struct {
	authService   *auth.Service
	canvasService *canvas.Service
}

// NewActorHandler creates a new actor handler
func NewActorHandler(authService *auth.Service, canvasService *canvas.Service) *ActorHandler {
	return &ActorHandler{
		authService:   authService,
		canvasService: canvasService,
	}
}

// Register handles POST /api/v1/actors/register
func (h *ActorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.authService.Register(req.Name, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, http.StatusCreated, session)
}

// Login handles POST /api/v1/actors/login
func (h *ActorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.authService.Login(req.Name, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, http.StatusOK, session)
}

// Logout handles POST /api/v1/actors/logout
func (h *ActorHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	response.NoContent(w)
}

// GetMe handles GET /api/v1/actors/me
func (h *ActorHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, err := h.canvasService.Actor(middleware.MustGetActorID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ActorFromModel(actor))
}

// writeSession sets the session cookie for browsers and returns the token
// in the body for API clients
func (h *ActorHandler) writeSession(w http.ResponseWriter, status int, session *auth.Session) {
	actor, err := h.canvasService.Actor(session.ActorID)
	if err != nil {
		WriteError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, status, response.AuthResponseFromSession(session, actor))
}
