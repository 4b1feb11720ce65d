// Package notify delivers short-lived success and failure messages to the user.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Level classifies a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notifier shows transient messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Func adapts a function to Notifier.
type Func func(level Level, msg string)

// Success implements Notifier.
func (f Func) Success(msg string) { f(LevelSuccess, msg) }

// Error implements Notifier.
func (f Func) Error(msg string) { f(LevelError, msg) }

// Writer prints notifications as single lines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Notifier printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Success implements Notifier.
func (n *Writer) Success(msg string) { n.write("✓", msg) }

// Error implements Notifier.
func (n *Writer) Error(msg string) { n.write("✗", msg) }

func (n *Writer) write(mark, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "%s %s\n", mark, msg)
}

// Message is one recorded notification.
type Message struct {
	Level Level
	Text  string
}

// Recorder keeps notifications in memory, for callers that report them later.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

// Success implements Notifier.
func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }

// Error implements Notifier.
func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Message{Level: l, Text: msg})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Last returns the latest notification.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return Message{}, false
	}
	return r.msgs[len(r.msgs)-1], true
}
