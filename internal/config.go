package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ainotes/internal/api"
)

// BaseURLEnv overrides api.base_url when set.
const BaseURLEnv = "AINOTES_BASE_URL"

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	API     APIConfig         `yaml:"api"`
	Session SessionConfig     `yaml:"session"`
	Share   ShareConfig       `yaml:"share"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives the terminal UI's logs. Empty discards them.
	LogFile string `yaml:"log_file"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError)),
	)
}

// APIConfig describes the notes backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Paths   api.Paths     `yaml:"paths"`
}

// Validate validates the backend configuration.
func (c *APIConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Min(time.Second), validation.Max(5*time.Minute)),
	); err != nil {
		return err
	}
	p := &c.Paths
	return validation.ValidateStruct(p,
		validation.Field(&p.GetNote, validation.Required, validation.By(absPath)),
		validation.Field(&p.Update, validation.Required, validation.By(absPath)),
		validation.Field(&p.ToggleFavorite, validation.Required, validation.By(absPath)),
		validation.Field(&p.List, validation.Required, validation.By(absPath)),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http or https URL")
	}
	return nil
}

func absPath(value interface{}) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, "/") {
		return errors.New("must start with /")
	}
	return nil
}

// SessionConfig locates the session token store.
type SessionConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ShareConfig configures the native share capability.
//
// Command receives the note content on stdin and NOTE_TITLE / NOTE_URL in its
// environment. An empty command falls back to the clipboard.
type ShareConfig struct {
	Command string `yaml:"command"`
}

// ApplyEnv applies environment overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(BaseURLEnv); ok && v != "" {
		c.API.BaseURL = v
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 30 * time.Second,
			Paths:   api.DefaultPaths(),
		},
		Session: SessionConfig{
			Path: "./ainotes.db",
		},
	}
}
