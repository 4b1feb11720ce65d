package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/ainotes/internal/models"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Shopping\nfavorite: true\naudioTranscription: milk eggs\n---\n# Heading\nMilk, eggs\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Shopping" {
		t.Errorf("title = %q, want %q", r.Title, "Shopping")
	}
	if r.Content != "# Heading\nMilk, eggs\n" {
		t.Errorf("content = %q", r.Content)
	}
	if r.Favorite == nil || !*r.Favorite {
		t.Errorf("favorite = %v, want true", r.Favorite)
	}
	if r.AudioTranscription != "milk eggs" {
		t.Errorf("audioTranscription = %q", r.AudioTranscription)
	}
}

func TestParse_LeadingH1BecomesTitle(t *testing.T) {
	r, err := Parse([]byte("\n# Just a heading\n\nSome text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
	if r.Content != "Some text.\n" {
		t.Errorf("content = %q", r.Content)
	}
	if r.Favorite != nil {
		t.Errorf("favorite = %v, want unset", *r.Favorite)
	}
}

func TestParse_LaterH1KeepsBody(t *testing.T) {
	body := "intro\n# Later\nmore\n"
	r, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Later" || r.Content != body {
		t.Errorf("title = %q, content = %q", r.Title, r.Content)
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := "---\n: invalid: yaml: {{{\n---\nBody\n"
	r, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if r.Content != input {
		t.Errorf("content = %q", r.Content)
	}
}

func TestParse_NonBoolFavorite(t *testing.T) {
	if _, err := Parse([]byte("---\nfavorite: maybe\n---\nx\n")); err == nil {
		t.Error("expected error for non-boolean favorite")
	}
}

func TestRender(t *testing.T) {
	n := models.Note{
		ID:        "42",
		Title:     "Shopping",
		Content:   "Milk, eggs",
		Favorite:  true,
		Type:      models.NoteTypeAudio,
		ImageURLs: []string{"a.png", "b.png"},
		CreatedAt: models.Timestamp{Time: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)},
	}
	out, err := Render(n)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "---\n" +
		"id: \"42\"\n" +
		"title: Shopping\n" +
		"favorite: true\n" +
		"type: audio\n" +
		"createdAt: \"2025-03-01T09:30:00Z\"\n" +
		"images:\n" +
		"  - a.png\n" +
		"  - b.png\n" +
		"---\n" +
		"Milk, eggs\n"
	if string(out) != want {
		t.Errorf("Render =\n%s\nwant\n%s", out, want)
	}
}

func TestRender_ParseRoundTrip(t *testing.T) {
	n := models.Note{ID: "7", Title: "Ideas", Content: "line one\nline two\n"}
	out, err := Render(n)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "images:") || strings.Contains(string(out), "createdAt:") {
		t.Errorf("empty fields should be omitted:\n%s", out)
	}
	r, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Title != n.Title || r.Content != n.Content {
		t.Errorf("round trip = %q %q", r.Title, r.Content)
	}
	if r.Favorite == nil || *r.Favorite {
		t.Errorf("favorite = %v, want false", r.Favorite)
	}
}
