package internal

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewApplication(t *testing.T) {
	if _, err := newApplication(nil); !errors.Is(err, errConfigRequired) {
		t.Fatalf("err = %v, want errConfigRequired", err)
	}

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	app, err := newApplication([]Option{WithConfig(NewDefaultConfig()), WithLogger(logger)})
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	if app.logger != logger {
		t.Error("WithLogger did not set the logger")
	}
	app.logger.Info("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestNewUILogger_File(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.LogFile = filepath.Join(t.TempDir(), "app.log")

	logger, closeLog, err := NewUILogger(cfg)
	if err != nil {
		t.Fatalf("NewUILogger: %v", err)
	}
	logger.Info("started", slog.String("base_url", cfg.API.BaseURL))
	closeLog()

	data, err := os.ReadFile(cfg.App.LogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"started"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestNewUILogger_DiscardWithoutFile(t *testing.T) {
	logger, closeLog, err := NewUILogger(NewDefaultConfig())
	if err != nil {
		t.Fatalf("NewUILogger: %v", err)
	}
	defer closeLog()
	if logger == nil {
		t.Fatal("logger is nil")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(BaseURLEnv, "https://api.example.com")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
}
