package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcoot/pixelcanvas/internal/api"
	"github.com/mcoot/pixelcanvas/internal/config"
	"github.com/mcoot/pixelcanvas/internal/factory"
	"github.com/mcoot/pixelcanvas/internal/web"
)

// sessionSweepInterval is how often expired sessions are dropped
const sessionSweepInterval = 10 * time.Minute

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "pixelcanvas",
		Short: "Shared pixel canvas server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
		SilenceUsage: true,
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to configuration file")
	flags.String("host", defaults.GetString("http.host"), "HTTP listen host")
	flags.Int("port", defaults.GetInt("http.port"), "HTTP listen port")
	flags.Int("width", defaults.GetInt("canvas.width"), "Canvas width in pixels")
	flags.Int("height", defaults.GetInt("canvas.height"), "Canvas height in pixels")
	flags.String("storage", defaults.GetString("storage.type"), "Storage backend: memory, redis or sqlite")
	flags.String("redis-url", defaults.GetString("storage.redis_url"), "Redis connection URL")
	flags.String("sqlite-path", defaults.GetString("storage.sqlite_path"), "SQLite database path")
	flags.Duration("flush-interval", defaults.GetDuration("journal.flush_interval"), "How often pending changes are persisted")
	flags.String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	flags.String("static-dir", defaults.GetString("web.static_dir"), "Serve static assets from this directory instead of the embedded copies")

	bindFlag(cmd, "http.host", "host")
	bindFlag(cmd, "http.port", "port")
	bindFlag(cmd, "canvas.width", "width")
	bindFlag(cmd, "canvas.height", "height")
	bindFlag(cmd, "storage.type", "storage")
	bindFlag(cmd, "storage.redis_url", "redis-url")
	bindFlag(cmd, "storage.sqlite_path", "sqlite-path")
	bindFlag(cmd, "journal.flush_interval", "flush-interval")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "web.static_dir", "static-dir")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: appConfig.LogLevel,
	}))
	slog.SetDefault(logger)

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create application, restoring persisted state
	app, err := factory.New(signalCtx, factory.ConfigFrom(appConfig, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	journalDone := make(chan struct{})
	go func() {
		defer close(journalDone)
		if err := app.Journal.Run(signalCtx); err != nil {
			logger.Error("journal stopped", slog.String("error", err.Error()))
		}
	}()
	go sweepSessions(signalCtx, app, logger)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Clock:         app.Clock,
		AuthService:   app.AuthService,
		CanvasService: app.CanvasService,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		Clock:          app.Clock,
		AuthService:    app.AuthService,
		CanvasService:  app.CanvasService,
		StaticDir:      appConfig.StaticDir,
		PollIntervalMS: int(appConfig.PollInterval / time.Millisecond),
	})

	server := api.NewServer(api.NewMux(apiRouter, webRouter), api.ServerConfigFrom(appConfig), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error("server error", slog.String("error", serveErr.Error()))
		}
		stop()
	case <-signalCtx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	// The journal flushes once more when its context ends
	<-journalDone

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Close(closeCtx); err != nil {
		logger.Error("failed to close application", slog.String("error", err.Error()))
		return errors.Join(serveErr, err)
	}

	logger.Info("server stopped")
	return serveErr
}

func sweepSessions(ctx context.Context, app *factory.App, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := app.AuthService.CleanExpiredSessions(); n > 0 {
				logger.Debug("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}
