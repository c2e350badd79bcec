package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/pixelcanvas/internal/config"
	"github.com/mcoot/pixelcanvas/internal/dependencies/clock"
	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/services/actors"
	"github.com/mcoot/pixelcanvas/internal/services/auth"
	"github.com/mcoot/pixelcanvas/internal/services/canvas"
	"github.com/mcoot/pixelcanvas/internal/services/grid"
	"github.com/mcoot/pixelcanvas/internal/services/history"
	"github.com/mcoot/pixelcanvas/internal/services/journal"
	"github.com/mcoot/pixelcanvas/internal/storage"
	"github.com/mcoot/pixelcanvas/internal/storage/memory"
	redisstorage "github.com/mcoot/pixelcanvas/internal/storage/redis"
	sqlitestorage "github.com/mcoot/pixelcanvas/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Logger *slog.Logger

	// Core state
	Grid     *grid.Store
	Registry *actors.Registry
	History  *history.Log

	// Services
	CanvasService *canvas.Service
	AuthService   *auth.Service
	Journal       *journal.Journal
}

// Config holds configuration for the application factory
type Config struct {
	// Width and Height of the canvas
	// If zero, default to model.DefaultCanvasWidth/Height
	Width  int
	Height int
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// JournalConfig controls background persistence (optional)
	JournalConfig journal.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// ConfigFrom maps loaded server configuration onto a factory Config
func ConfigFrom(cfg config.Config, logger *slog.Logger) Config {
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = cfg.RedisURL
	return Config{
		Width:  cfg.CanvasWidth,
		Height: cfg.CanvasHeight,
		AuthConfig: auth.Config{
			SessionDuration: cfg.SessionDuration,
		},
		JournalConfig: journal.Config{
			FlushInterval: cfg.FlushInterval,
		},
		Logger:      logger,
		StorageType: cfg.StorageType,
		RedisConfig: &redisCfg,
		SQLitePath:  cfg.SQLitePath,
	}
}

// New creates a new application with all dependencies wired and state
// restored from storage
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(store, clock.New(), cfg, logger)

	if _, err := journal.Restore(ctx, store, app.Registry, app.History, app.Grid, journal.DefaultBatchSize, logger); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restoring canvas: %w", err)
	}
	if err := app.CanvasService.VerifyCounters(); err != nil {
		logger.Error("counter verification failed after restore", slog.String("error", err.Error()))
	}

	return app, nil
}

func openStorage(cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case config.StorageSQLite:
		return sqlitestorage.Open(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *App {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = model.DefaultCanvasWidth
	}
	if height <= 0 {
		height = model.DefaultCanvasHeight
	}

	g := grid.New(width, height)
	registry := actors.New(clk, logger)
	log := history.New()

	canvasService := canvas.New(g, registry, log, logger)
	authService := auth.New(registry, clk, logger, cfg.AuthConfig)
	j := journal.New(store, registry, logger, cfg.JournalConfig)

	canvasService.SetRecorder(j)
	registry.Observe(j.MarkActorDirty)

	return &App{
		Storage:       store,
		Clock:         clk,
		Logger:        logger,
		Grid:          g,
		Registry:      registry,
		History:       log,
		CanvasService: canvasService,
		AuthService:   authService,
		Journal:       j,
	}
}

// Close flushes pending changes and releases storage
func (a *App) Close(ctx context.Context) error {
	flushErr := a.Journal.Flush(ctx)
	closeErr := a.Storage.Close()
	return errors.Join(flushErr, closeErr)
}
