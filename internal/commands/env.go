// Package commands implements the non-interactive ainotes subcommands on top
// of the editor and sidebar packages.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/starford/ainotes/internal/editor"
	"github.com/starford/ainotes/internal/models"
	"github.com/starford/ainotes/internal/notify"
	"github.com/starford/ainotes/internal/session"
)

// NoteService is the backend surface the commands need.
type NoteService interface {
	editor.NoteService
	ListNotes(ctx context.Context) ([]models.Note, error)
}

// Env carries the services one command invocation works with.
type Env struct {
	Notes    NoteService
	Sessions session.Store
	Sharer   editor.Sharer
	BaseURL  string
	Logger   *slog.Logger
	Out      io.Writer
	// ImageRoot resolves relative --image paths. Empty means the working directory.
	ImageRoot string
}

// Loader builds the Env for a command. The returned func releases it.
type Loader func(ctx context.Context, cmd *cli.Command) (*Env, func(), error)

func (e *Env) notifier() notify.Notifier {
	return notify.NewWriter(e.Out)
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// open starts an editor over the listed note with the given id and loads its
// detail. A failed detail fetch is logged and the listed values are kept.
func (e *Env) open(ctx context.Context, id string) (*editor.Editor, error) {
	notes, err := e.Notes.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	for _, n := range notes {
		if n.ID != id {
			continue
		}
		ed := editor.New(n, editor.Deps{
			Notes:    e.Notes,
			Notifier: e.notifier(),
			Sharer:   e.Sharer,
			BaseURL:  e.BaseURL,
			Logger:   e.logger(),
		})
		_ = ed.LoadDetail(ctx)
		return ed, nil
	}
	return nil, fmt.Errorf("note %q not found", id)
}

// snapshot merges the editor's draft into its note.
func snapshot(ed *editor.Editor) models.Note {
	n := ed.Note()
	d := ed.Draft()
	n.Title = d.Title
	n.Content = d.Content
	n.Favorite = ed.Favourite()
	n.AudioTranscription = d.AudioTranscription
	n.ImageURLs = d.ExistingImages
	if !d.Date.IsZero() {
		n.CreatedAt = models.Timestamp{Time: d.Date}
	}
	return n
}
