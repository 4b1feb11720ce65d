package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/ainotes/internal/api"
	"github.com/starford/ainotes/internal/commands"
	"github.com/starford/ainotes/internal/session"
	"github.com/starford/ainotes/internal/share"
	pkgconfig "github.com/starford/ainotes/pkg/config"
)

var errConfigRequired = errors.New("config is required")

// LoadConfig reads the optional YAML file at path over the defaults, applies
// environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if _, err := pkgconfig.Read(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := pkgconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger returns a structured JSON logger writing to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewUILogger returns the terminal UI's logger: JSON to app.log_file, or
// discarded when no file is configured. The returned func closes the file.
func NewUILogger(cfg *Config) (*slog.Logger, func(), error) {
	if cfg.App.LogFile == "" {
		return NewLogger(io.Discard, cfg.App.LogLevel), func() {}, nil
	}
	f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(f, cfg.App.LogLevel), func() { _ = f.Close() }, nil
}

// Services are the long-lived collaborators shared by every front end.
type Services struct {
	Config   *Config
	Logger   *slog.Logger
	Sessions *session.SQLite
	Client   *api.Client
	Sharer   *share.Service
}

// NewServices opens the session store and builds the backend client.
func NewServices(cfg *Config, logger *slog.Logger) (*Services, error) {
	store, err := session.Open(cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	client, err := api.New(cfg.API.BaseURL, store,
		api.WithPaths(cfg.API.Paths),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &Services{
		Config:   cfg,
		Logger:   logger,
		Sessions: store,
		Client:   client,
		Sharer:   share.New(cfg.Share.Command),
	}, nil
}

// Close releases the session store.
func (s *Services) Close() error {
	return s.Sessions.Close()
}

// CommandEnv returns the environment the one-shot commands run in.
func (s *Services) CommandEnv(out io.Writer) *commands.Env {
	return &commands.Env{
		Notes:    s.Client,
		Sessions: s.Sessions,
		Sharer:   s.Sharer,
		BaseURL:  s.Config.API.BaseURL,
		Logger:   s.Logger,
		Out:      out,
	}
}
