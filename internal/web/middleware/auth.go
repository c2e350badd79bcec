package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
)

type contextKey string

const (
	actorContextKey contextKey = "actor"
	tokenContextKey contextKey = "token"
)

// SessionCookie carries the session token; shared with the JSON API so a
// browser login works for the page script
const SessionCookie = "session"

// GetActor retrieves the authenticated actor from the request context
// Returns nil if no actor is authenticated
func GetActor(ctx context.Context) *model.Actor {
	actor, _ := ctx.Value(actorContextKey).(*model.Actor)
	return actor
}

// GetToken returns the session token of the current request, if any
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// Auth returns middleware that requires authentication
// Redirects to the canvas page if not authenticated
func Auth(authService *auth.Service, canvasService *canvas.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, token := actorFromSession(r, authService, canvasService)
			if actor == nil {
				SetFlash(w, "error", "Please log in first")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor, token)))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it
// Sets actor in context if authenticated, nil otherwise
func OptionalAuth(authService *auth.Service, canvasService *canvas.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, token := actorFromSession(r, authService, canvasService)
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor, token)))
		})
	}
}

// RequirePrivileged redirects actors that are neither admin nor moderator.
// Must run after Auth.
func RequirePrivileged() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := GetActor(r.Context())
			if actor == nil || !actor.IsPrivileged() {
				SetFlash(w, "error", "The dashboard is for admins and moderators")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withActor(ctx context.Context, actor *model.Actor, token string) context.Context {
	ctx = context.WithValue(ctx, actorContextKey, actor)
	return context.WithValue(ctx, tokenContextKey, token)
}

func actorFromSession(r *http.Request, authService *auth.Service, canvasService *canvas.Service) (*model.Actor, string) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, ""
	}

	session, err := authService.ValidateSession(cookie.Value)
	if err != nil {
		return nil, ""
	}

	actor, err := canvasService.Actor(session.ActorID)
	if err != nil {
		return nil, ""
	}

	return &actor, session.Token
}
