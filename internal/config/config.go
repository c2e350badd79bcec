// Package config loads server configuration from flags, environment and an
// optional config file through viper
package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix = "PIXELCANVAS"

	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config captures runtime configuration for the server
type Config struct {
	HTTPHost string
	HTTPPort int

	CanvasWidth  int
	CanvasHeight int

	StorageType string
	RedisURL    string
	SQLitePath  string

	FlushInterval   time.Duration
	SessionDuration time.Duration

	LogLevel     slog.Level
	StaticDir    string
	PollInterval time.Duration
}

// Addr returns the HTTP listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

// NewViper returns a viper instance with defaults and env bindings configured
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("canvas.width", 50)
	v.SetDefault("canvas.height", 50)
	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.redis_url", "redis://localhost:6379")
	v.SetDefault("storage.sqlite_path", "pixelcanvas.db")
	v.SetDefault("journal.flush_interval", time.Second)
	v.SetDefault("auth.session_duration", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("web.static_dir", "")
	v.SetDefault("web.poll_interval", 200*time.Millisecond)
}

// Load parses runtime configuration from viper
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPHost:        v.GetString("http.host"),
		HTTPPort:        v.GetInt("http.port"),
		CanvasWidth:     v.GetInt("canvas.width"),
		CanvasHeight:    v.GetInt("canvas.height"),
		StorageType:     strings.ToLower(strings.TrimSpace(v.GetString("storage.type"))),
		RedisURL:        v.GetString("storage.redis_url"),
		SQLitePath:      v.GetString("storage.sqlite_path"),
		FlushInterval:   v.GetDuration("journal.flush_interval"),
		SessionDuration: v.GetDuration("auth.session_duration"),
		StaticDir:       v.GetString("web.static_dir"),
		PollInterval:    v.GetDuration("web.poll_interval"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return Config{}, fmt.Errorf("log.level: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTPPort)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("storage.redis_url is required for redis storage")
		}
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("storage.sqlite_path is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown storage.type %q", c.StorageType)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("journal.flush_interval must be positive")
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("auth.session_duration must be positive")
	}
	return nil
}
