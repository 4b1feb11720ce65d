// Package editor holds the state of an open note: a draft of its editable
// fields and the operations that read and write it through the backend.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/starford/ainotes/internal/api"
	"github.com/starford/ainotes/internal/models"
	"github.com/starford/ainotes/internal/notify"
	"github.com/starford/ainotes/internal/share"
)

// User-facing notification texts.
const (
	MsgSaved            = "Note updated successfully"
	MsgSaveFailed       = "Failed to update note"
	MsgFavoriteToggled  = "Favourite toggled successfully"
	MsgFavoriteFailed   = "Failed to toggle favourite"
	MsgShared           = "Note shared successfully!"
	MsgShareFailed      = "Failed to share note"
	MsgCopied           = "Note content copied to clipboard!"
	MsgTranscriptCopied = "Transcript copied to clipboard"
	MsgCopyFailed       = "Failed to copy to clipboard"
)

// ErrClosed is returned by operations on an editor that has been closed.
var ErrClosed = errors.New("editor: closed")

// NoteService is the backend surface the editor needs.
type NoteService interface {
	GetNote(ctx context.Context, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, req api.UpdateNoteRequest) error
	UpdateNoteWithImages(ctx context.Context, req api.UpdateNoteRequest, files []api.ImageFile) error
	ToggleFavorite(ctx context.Context, id string) error
}

// Sharer hands content to the platform.
type Sharer interface {
	Share(ctx context.Context, p share.Payload) (share.Method, error)
	Copy(text string) error
}

// Deps are the collaborators of an Editor. Notes is required.
type Deps struct {
	Notes    NoteService
	Notifier notify.Notifier
	Sharer   Sharer
	// BaseURL builds the note link passed to the share capability.
	BaseURL string
	// Refresh asks the owner to reload its note list. It runs only after a
	// successful write.
	Refresh func()
	// OnClose runs once, when the editor closes.
	OnClose func()
	Logger  *slog.Logger
}

// Editor is an open note. It is safe for concurrent use; backend calls run
// without holding the lock.
type Editor struct {
	note models.Note // opening copy, never mutated
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	draft      Draft
	favourite  bool // displayed indicator
	tab        Tab
	fullscreen bool
	closed     bool
}

// New opens an editor over note. The draft mirrors the note's fields until
// LoadDetail replaces the images and date.
func New(note models.Note, deps Deps) *Editor {
	if deps.Notifier == nil {
		deps.Notifier = notify.Func(func(notify.Level, string) {})
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Editor{
		note:      note,
		deps:      deps,
		ctx:       ctx,
		cancel:    cancel,
		draft:     newDraft(note),
		favourite: note.Favorite,
		tab:       TabNotes,
	}
}

// Note returns the note the editor was opened with.
func (e *Editor) Note() models.Note { return e.note }

// ID returns the note identifier.
func (e *Editor) ID() string { return e.note.ID }

// IsAudio reports whether the note carries an audio recording.
func (e *Editor) IsAudio() bool { return e.note.IsAudio() }

// Draft returns a copy of the current draft.
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.clone()
}

// Favourite reports the displayed favourite indicator.
func (e *Editor) Favourite() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.favourite
}

// Tab returns the active tab.
func (e *Editor) Tab() Tab {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tab
}

// SetTab switches the active tab. Invalid tabs are ignored.
func (e *Editor) SetTab(t Tab) {
	if !t.Valid() {
		return
	}
	e.mu.Lock()
	e.tab = t
	e.mu.Unlock()
}

// Fullscreen reports the fullscreen view flag.
func (e *Editor) Fullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullscreen
}

// ToggleFullscreen flips the fullscreen view flag.
func (e *Editor) ToggleFullscreen() {
	e.mu.Lock()
	e.fullscreen = !e.fullscreen
	e.mu.Unlock()
}

// Closed reports whether Close has been called.
func (e *Editor) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// SetTitle edits the draft title.
func (e *Editor) SetTitle(s string) { e.edit(func(d *Draft) { d.Title = s }) }

// SetContent edits the draft content.
func (e *Editor) SetContent(s string) { e.edit(func(d *Draft) { d.Content = s }) }

// SetAudioTranscription edits the draft transcription.
func (e *Editor) SetAudioTranscription(s string) {
	e.edit(func(d *Draft) { d.AudioTranscription = s })
}

// SetFavorite edits the draft favorite field. The value is sent on Save.
func (e *Editor) SetFavorite(v bool) { e.edit(func(d *Draft) { d.Favorite = v }) }

// SelectImages replaces the pending image set with files.
func (e *Editor) SelectImages(files ...File) {
	selected := make([]File, len(files))
	copy(selected, files)
	e.edit(func(d *Draft) { d.SelectedImages = selected })
}

// RemoveExistingImage drops every occurrence of rawURL from the existing
// images. Removing an absent URL is a no-op.
func (e *Editor) RemoveExistingImage(rawURL string) {
	e.edit(func(d *Draft) {
		kept := d.ExistingImages[:0:0]
		for _, u := range d.ExistingImages {
			if u != rawURL {
				kept = append(kept, u)
			}
		}
		d.ExistingImages = kept
	})
}

func (e *Editor) edit(fn func(*Draft)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.draft)
}

// bind returns a context cancelled by either ctx or Close.
func (e *Editor) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(e.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// LoadDetail fetches the note and replaces the draft's existing images and
// date with the server's values. Failures are logged only; the draft keeps
// its values. A response arriving after Close is discarded.
func (e *Editor) LoadDetail(ctx context.Context) error {
	if e.Closed() {
		return ErrClosed
	}
	ctx, cancel := e.bind(ctx)
	defer cancel()

	n, err := e.deps.Notes.GetNote(ctx, e.note.ID)
	if err != nil {
		if e.Closed() {
			e.deps.Logger.Debug("note detail abandoned", "id", e.note.ID, "err", err)
			return ErrClosed
		}
		e.deps.Logger.Error("fetch note detail", "id", e.note.ID, "err", err)
		return fmt.Errorf("editor: load detail: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		e.deps.Logger.Debug("discarding stale note detail", "id", e.note.ID)
		return ErrClosed
	}
	images := n.ImageURLs
	if images == nil {
		images = []string{}
	}
	e.draft.ExistingImages = append([]string{}, images...)
	e.draft.Date = n.CreatedAt.Time
	return nil
}

// Save pushes the draft to the backend. New images switch the request to
// multipart. On success the owner is refreshed and the editor closes; on
// failure the draft is left intact.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	d := e.draft.clone()
	e.mu.Unlock()

	req := d.updateRequest(e.note.ID)
	var err error
	if d.HasNewImages() {
		err = e.deps.Notes.UpdateNoteWithImages(ctx, req, d.SelectedImages)
	} else {
		err = e.deps.Notes.UpdateNote(ctx, req)
	}
	if err != nil {
		e.deps.Logger.Error("update note", "id", e.note.ID, "multipart", d.HasNewImages(), "err", err)
		e.deps.Notifier.Error(MsgSaveFailed)
		return fmt.Errorf("editor: save: %w", err)
	}

	e.deps.Logger.Info("note updated", "id", e.note.ID, "new_images", len(d.SelectedImages))
	e.deps.Notifier.Success(MsgSaved)
	e.refresh()
	e.Close()
	return nil
}

// ToggleFavorite flips the favourite flag on the backend immediately. On
// success both the indicator and the draft field flip.
func (e *Editor) ToggleFavorite(ctx context.Context) error {
	if e.Closed() {
		return ErrClosed
	}
	if err := e.deps.Notes.ToggleFavorite(ctx, e.note.ID); err != nil {
		e.deps.Logger.Error("toggle favourite", "id", e.note.ID, "err", err)
		e.deps.Notifier.Error(MsgFavoriteFailed)
		return fmt.Errorf("editor: toggle favourite: %w", err)
	}

	e.mu.Lock()
	e.favourite = !e.favourite
	e.draft.Favorite = !e.draft.Favorite
	e.mu.Unlock()

	e.deps.Notifier.Success(MsgFavoriteToggled)
	e.refresh()
	return nil
}

// ShareURL is the link to the note passed along when sharing.
func (e *Editor) ShareURL() string {
	if e.deps.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(e.deps.BaseURL, "/") + "/notes/" + url.PathEscape(e.note.ID)
}

// Share hands the draft title and content to the platform share capability,
// or copies the content when none is available.
func (e *Editor) Share(ctx context.Context) error {
	if e.deps.Sharer == nil {
		e.deps.Notifier.Error(MsgShareFailed)
		return errors.New("editor: share: no share capability")
	}
	d := e.Draft()
	method, err := e.deps.Sharer.Share(ctx, share.Payload{
		Title: d.Title,
		Text:  d.Content,
		URL:   e.ShareURL(),
	})
	if err != nil {
		e.deps.Logger.Error("share note", "id", e.note.ID, "method", method.String(), "err", err)
		e.deps.Notifier.Error(MsgShareFailed)
		return fmt.Errorf("editor: share: %w", err)
	}
	if method == share.MethodClipboard {
		e.deps.Notifier.Success(MsgCopied)
	} else {
		e.deps.Notifier.Success(MsgShared)
	}
	return nil
}

// CopyTranscript copies the draft content to the clipboard.
func (e *Editor) CopyTranscript() error {
	if e.deps.Sharer == nil {
		e.deps.Notifier.Error(MsgCopyFailed)
		return errors.New("editor: copy: no clipboard")
	}
	if err := e.deps.Sharer.Copy(e.Draft().Content); err != nil {
		e.deps.Logger.Error("copy transcript", "id", e.note.ID, "err", err)
		e.deps.Notifier.Error(MsgCopyFailed)
		return fmt.Errorf("editor: copy: %w", err)
	}
	e.deps.Notifier.Success(MsgTranscriptCopied)
	return nil
}

// Close discards the draft, cancels in-flight detail fetches and runs
// OnClose. Calling it again has no effect.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	if e.deps.OnClose != nil {
		e.deps.OnClose()
	}
}

func (e *Editor) refresh() {
	if e.deps.Refresh != nil {
		e.deps.Refresh()
	}
}
