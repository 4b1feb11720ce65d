package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.API.Paths.Update != "/notes/update" {
		t.Errorf("update path = %q", cfg.API.Paths.Update)
	}
}

func TestAPIConfig_BaseURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://api.example.com", false},
		{"http://localhost:5000/v1", false},
		{"", true},
		{"api.example.com", true},
		{"ftp://example.com", true},
		{"http://", true},
	}
	for _, tt := range tests {
		cfg := NewDefaultConfig()
		cfg.API.BaseURL = tt.url
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("base_url %q: err = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestAPIConfig_Timeout(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.API.Timeout = 10 * time.Minute
	if err := cfg.Validate(); err == nil {
		t.Fatal("timeout above 5m should fail")
	}
	cfg.API.Timeout = 500 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Fatal("timeout below 1s should fail")
	}
}

func TestAPIConfig_PathsMustBeAbsolute(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.API.Paths.ToggleFavorite = "notes/toggleFavourite"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("relative path should fail")
	}
	if !strings.Contains(err.Error(), "must start with /") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSessionConfig_PathRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Session.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty session path should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{BaseURLEnv: "https://notes.example.com"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := NewDefaultConfig()
	cfg.ApplyEnv(lookup)
	if cfg.API.BaseURL != "https://notes.example.com" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}

	env[BaseURLEnv] = ""
	cfg = NewDefaultConfig()
	cfg.ApplyEnv(lookup)
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Errorf("empty override should be ignored, got %q", cfg.API.BaseURL)
	}
}
