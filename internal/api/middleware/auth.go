package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/pixelcanvas/internal/api/apierr"
	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
)

type contextKey string

const (
	actorContextKey   contextKey = "actor"
	sessionContextKey contextKey = "session"
)

// SessionCookie is the cookie carrying the session token for browsers
const SessionCookie = "session"

// Auth creates authentication middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
		})
	}
}

// OptionalAuth extracts session if present but doesn't require it
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				if session, err := authService.ValidateSession(token); err == nil {
					r = r.WithContext(withSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePrivileged rejects callers that are neither admin nor moderator.
// Must run after Auth.
func RequirePrivileged(canvasService *canvas.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := canvasService.Actor(MustGetActorID(r.Context()))
			if err != nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if !actor.IsPrivileged() {
				apierr.WriteError(w, apierr.NewForbiddenError("Admin or moderator role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withSession(ctx context.Context, session *auth.Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, session)
	return context.WithValue(ctx, actorContextKey, session.ActorID)
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetActorID returns the authenticated actor id from the request context,
// or "" for anonymous requests
func GetActorID(ctx context.Context) model.ActorID {
	id, _ := ctx.Value(actorContextKey).(model.ActorID)
	return id
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// MustGetActorID returns the authenticated actor id or panics
func MustGetActorID(ctx context.Context) model.ActorID {
	id := GetActorID(ctx)
	if id == "" {
		panic("no actor in context - auth middleware not applied?")
	}
	return id
}
