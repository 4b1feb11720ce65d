// Package parser converts between notes and Markdown files with YAML frontmatter.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/ainotes/internal/models"
)

// Result holds the editable fields read from a Markdown file.
type Result struct {
	Frontmatter map[string]interface{}
	Title       string
	// Content is the body with a leading H1 removed when it supplied the title.
	Content            string
	Favorite           *bool
	AudioTranscription string
}

// Parse reads frontmatter and body from raw Markdown. The title comes from
// the frontmatter "title" key, otherwise the first H1 heading.
func Parse(data []byte) (*Result, error) {
	fm, body := splitFrontmatter(data)

	r := &Result{Frontmatter: fm, Content: body}
	if s, ok := fm["title"].(string); ok && strings.TrimSpace(s) != "" {
		r.Title = strings.TrimSpace(s)
	} else if title, rest, ok := leadingH1(body); ok {
		r.Title = title
		r.Content = rest
	} else {
		r.Title = firstH1(body)
	}

	if raw, ok := fm["favorite"]; ok {
		v, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("parser: favorite must be a boolean, got %T", raw)
		}
		r.Favorite = &v
	}
	if s, ok := fm["audioTranscription"].(string); ok {
		r.AudioTranscription = s
	}
	return r, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. Without valid frontmatter the whole input is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}
	return fm, body
}

// leadingH1 reports an H1 on the first non-blank line and returns the body after it.
func leadingH1(body string) (title, rest string, ok bool) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "# ") {
			return "", body, false
		}
		rest = strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		return strings.TrimSpace(trimmed[2:]), rest, true
	}
	return "", body, false
}

func firstH1(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

type frontmatter struct {
	ID                 string   `yaml:"id"`
	Title              string   `yaml:"title"`
	Favorite           bool     `yaml:"favorite"`
	Type               string   `yaml:"type,omitempty"`
	CreatedAt          string   `yaml:"createdAt,omitempty"`
	AudioTranscription string   `yaml:"audioTranscription,omitempty"`
	Images             []string `yaml:"images,omitempty"`
}

// Render writes n as Markdown with YAML frontmatter followed by its content.
func Render(n models.Note) ([]byte, error) {
	fm := frontmatter{
		ID:                 n.ID,
		Title:              n.Title,
		Favorite:           n.Favorite,
		Type:               string(n.Type),
		AudioTranscription: n.AudioTranscription,
		Images:             n.ImageURLs,
	}
	if !n.CreatedAt.IsZero() {
		fm.CreatedAt = n.CreatedAt.UTC().Format(time.RFC3339)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	buf.WriteString("---\n")
	buf.WriteString(n.Content)
	if n.Content != "" && !strings.HasSuffix(n.Content, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
