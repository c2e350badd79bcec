package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pixelcanvas/internal/dependencies/clock"
	commonmw "github.com/mcoot/pixelcanvas/internal/middleware"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
	"github.com/mcoot/pixelcanvas/internal/web/handler"
	"github.com/mcoot/pixelcanvas/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger        *slog.Logger
	Clock         clock.Clock
	AuthService   *auth.Service
	CanvasService *canvas.Service
	StaticDir     string // Overrides the embedded assets when set
	// PollIntervalMS is the canvas refresh period; zero uses the default
	PollIntervalMS int
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService, cfg.CanvasService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService, cfg.CanvasService)

	// Apply global middleware to all routes
	r.Use(commonmw.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(commonmw.NoCache)

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.CanvasService, cfg.PollIntervalMS)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	adminHandler := handler.NewAdminHandler(cfg.CanvasService, cfg.Clock)

	// Static files
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticFiles(cfg.StaticDir)))

	// Public routes (optional auth for showing actor info in nav)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Auth actions (no auth required)
	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.Use(optionalAuthMiddleware)
	authRoutes.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Dashboard (admins and moderators)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(flashMiddleware)
	admin.Use(authMiddleware)
	admin.Use(middleware.RequirePrivileged())
	admin.HandleFunc("", adminHandler.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/moderate", adminHandler.Moderate).Methods(http.MethodPost)

	return r
}
