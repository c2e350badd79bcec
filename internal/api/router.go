package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pixelcanvas/internal/api/apierr"
	"github.com/mcoot/pixelcanvas/internal/api/handler"
	"github.com/mcoot/pixelcanvas/internal/api/middleware"
	"github.com/mcoot/pixelcanvas/internal/dependencies/clock"
	commonmw "github.com/mcoot/pixelcanvas/internal/middleware"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	Clock         clock.Clock
	AuthService   *auth.Service
	CanvasService *canvas.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	canvasHandler := handler.NewCanvasHandler(cfg.CanvasService, cfg.Clock)
	adminHandler := handler.NewAdminHandler(cfg.CanvasService, cfg.Clock)
	actorHandler := handler.NewActorHandler(cfg.AuthService, cfg.CanvasService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	privilegedMiddleware := middleware.RequirePrivileged(cfg.CanvasService)

	// Logging wraps recovery so panics are logged with their request id
	r.Use(commonmw.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(commonmw.NoCache)

	// API subrouter
	api := r.PathPrefix("/api/v1").Subrouter()

	// Canvas routes (placement authenticates in the service so anonymous
	// callers get a uniform error)
	public := api.NewRoute().Subrouter()
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/canvas", canvasHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/pixel", canvasHandler.Place).Methods(http.MethodPost)
	public.HandleFunc("/history", canvasHandler.History).Methods(http.MethodGet)
	public.HandleFunc("/actors/register", actorHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/actors/login", actorHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/actors/logout", actorHandler.Logout).Methods(http.MethodPost)

	// Protected actor routes
	actorsProtected := api.PathPrefix("/actors").Subrouter()
	actorsProtected.Use(authMiddleware)
	actorsProtected.HandleFunc("/me", actorHandler.GetMe).Methods(http.MethodGet)

	// Admin routes; per-action role checks happen in the moderation policy
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.HandleFunc("/ban", adminHandler.Ban).Methods(http.MethodPost)
	admin.HandleFunc("/unban", adminHandler.Unban).Methods(http.MethodPost)
	admin.HandleFunc("/timeout", adminHandler.Timeout).Methods(http.MethodPost)
	admin.HandleFunc("/remove-timeout", adminHandler.RemoveTimeout).Methods(http.MethodPost)
	admin.HandleFunc("/set-moderator", adminHandler.SetModerator).Methods(http.MethodPost)
	admin.Handle("/dashboard", privilegedMiddleware(http.HandlerFunc(adminHandler.Dashboard))).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// Legacy routes kept for older clients
	legacy := r.PathPrefix("/api").Subrouter()
	legacy.Use(optionalAuthMiddleware)
	legacy.HandleFunc("/canvas", canvasHandler.Get).Methods(http.MethodGet)
	legacy.HandleFunc("/pixel", canvasHandler.Place).Methods(http.MethodPost)

	r.NotFoundHandler = commonmw.Logging(cfg.Logger)(http.HandlerFunc(notFound))

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}
