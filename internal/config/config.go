package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	API     APIConfig
	Storage StorageConfig
	Render  RenderConfig
	Session SessionConfig
	Form    FormConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// Addr is the listen address, e.g. "127.0.0.1:4100".
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig points at the remote analysis service.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	// DSN is ":memory:", a database file, or a directory to hold one.
	DSN string
}

type RenderConfig struct {
	Stagger time.Duration
}

type SessionConfig struct {
	TTL    time.Duration
	Cookie string
}

type FormConfig struct {
	PrefillDemo bool
}

type LogConfig struct {
	Level string
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 4100,
		},
		API: APIConfig{
			BaseURL: "https://hackathon-78xd.onrender.com",
			Timeout: 60 * time.Second,
		},
		Storage: StorageConfig{
			DSN: ":memory:",
		},
		Render: RenderConfig{
			Stagger: 200 * time.Millisecond,
		},
		Session: SessionConfig{
			TTL:    2 * time.Hour,
			Cookie: "careermentor_session",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration in increasing precedence: built-in defaults,
// the JSON file at $XDG_CONFIG_HOME/careermentor/config.json, then
// CAREERMENTOR_* environment variables. A .env file in the working
// directory is loaded into the environment first; variables already set
// are not replaced.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid api.timeout %s: must be positive", c.API.Timeout)
	}
	if c.Render.Stagger < 0 {
		return fmt.Errorf("invalid render.stagger %s: must not be negative", c.Render.Stagger)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid session.ttl %s: must be positive", c.Session.TTL)
	}
	if c.Session.Cookie == "" {
		return errors.New("session.cookie must not be empty")
	}
	return nil
}
