// Package share hands note content to the platform: a configured share
// command when one exists, the system clipboard otherwise.
package share

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// Method tells which capability handled a share.
type Method int

const (
	MethodNative Method = iota
	MethodClipboard
)

func (m Method) String() string {
	if m == MethodClipboard {
		return "clipboard"
	}
	return "native"
}

// Payload is what gets shared.
type Payload struct {
	Title string
	Text  string
	URL   string
}

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Service shares payloads and copies text.
type Service struct {
	command []string
	clip    Clipboard
}

// Option configures a Service.
type Option func(*Service)

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(s *Service) {
		s.clip = c
	}
}

// New creates a Service. command is split on whitespace; an empty command
// means no native share capability is available.
func New(command string, opts ...Option) *Service {
	s := &Service{
		command: strings.Fields(command),
		clip:    systemClipboard{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether a native share command is configured.
func (s *Service) Available() bool {
	return len(s.command) > 0
}

// Share runs the native command with the text on stdin and NOTE_TITLE and
// NOTE_URL in its environment. Without a command it copies the text instead.
func (s *Service) Share(ctx context.Context, p Payload) (Method, error) {
	if !s.Available() {
		return MethodClipboard, s.Copy(p.Text)
	}
	cmd := exec.CommandContext(ctx, s.command[0], s.command[1:]...)
	cmd.Stdin = strings.NewReader(p.Text)
	cmd.Env = append(os.Environ(), "NOTE_TITLE="+p.Title, "NOTE_URL="+p.URL)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return MethodNative, fmt.Errorf("share: %s: %w: %s", s.command[0], err, msg)
		}
		return MethodNative, fmt.Errorf("share: %s: %w", s.command[0], err)
	}
	return MethodNative, nil
}

// Copy writes text to the clipboard.
func (s *Service) Copy(text string) error {
	if err := s.clip.WriteAll(text); err != nil {
		return fmt.Errorf("share: clipboard: %w", err)
	}
	return nil
}
