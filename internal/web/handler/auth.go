package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/pixelcanvas/internal/api/request"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/web/middleware"
)

// AuthHandler handles login, registration and logout forms
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := request.LoginRequest{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Password: r.PostFormValue("password"),
	}
	if err := request.Validate(&req); err != nil {
		middleware.SetFlash(w, "error", err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session, err := h.authService.Login(req.Name, req.Password)
	if err != nil {
		redirectWithError(w, r, "/", err)
		return
	}

	h.setSessionCookie(w, session)
	middleware.SetFlash(w, "success", "Welcome back, "+req.Name+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := request.RegisterRequest{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Password: r.PostFormValue("password"),
	}
	if err := request.Validate(&req); err != nil {
		middleware.SetFlash(w, "error", err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session, err := h.authService.Register(req.Name, req.Password)
	if err != nil {
		redirectWithError(w, r, "/", err)
		return
	}

	h.setSessionCookie(w, session)
	middleware.SetFlash(w, "success", "Account created! Welcome, "+req.Name+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.GetToken(r.Context()); token != "" {
		h.authService.InvalidateSession(token)
	}

	// Clear session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
