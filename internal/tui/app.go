// Package tui is the terminal front end: a sidebar, the note list and the
// note editor modal, built on tview.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/starford/ainotes/internal/api"
	"github.com/starford/ainotes/internal/editor"
	"github.com/starford/ainotes/internal/models"
	"github.com/starford/ainotes/internal/notify"
	"github.com/starford/ainotes/internal/session"
	"github.com/starford/ainotes/internal/sidebar"
	"github.com/starford/ainotes/internal/storage"
)

// Page names.
const (
	pageMain   = "main"
	pageSignIn = "signin"
	pageEditor = "editor"
	pagePicker = "picker"
)

// NoteService is the backend surface the UI needs.
type NoteService interface {
	editor.NoteService
	ListNotes(ctx context.Context) ([]models.Note, error)
}

// Deps are the collaborators of the UI. Picker may be nil, which disables
// adding images.
type Deps struct {
	Notes    NoteService
	Sessions session.Store
	Sharer   editor.Sharer
	Picker   *storage.Picker
	BaseURL  string
	Logger   *slog.Logger
}

// UI owns the tview application. Its fields are touched only on the UI
// goroutine; backend calls run through spawn and report back through queue.
type UI struct {
	deps     Deps
	logger   *slog.Logger
	ctx      context.Context
	app      *tview.Application
	pages    *tview.Pages
	notifier notify.Notifier
	side     *sidebar.Sidebar

	nav     *tview.List
	list    *tview.List
	status  *tview.TextView
	signIn  *tview.Form
	route   sidebar.Route
	notes   []models.Note
	visible []models.Note

	ev *editorView

	queue     func(func())
	spawn     func(func())
	statusSeq int
	statusTTL time.Duration
}

// New builds the UI. ctx bounds every backend call and ends Run when done.
func New(ctx context.Context, deps Deps) *UI {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	u := &UI{
		deps:   deps,
		logger: logger,
		ctx:    ctx,
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		route:  sidebar.RouteHome,

		statusTTL: 3 * time.Second,
	}
	u.queue = func(f func()) { u.app.QueueUpdateDraw(f) }
	u.spawn = func(f func()) { go f() }
	u.notifier = notify.Func(func(l notify.Level, msg string) {
		u.queue(func() { u.setStatus(l, msg) })
	})
	u.side = sidebar.New(deps.Sessions, u.notifier, func(r sidebar.Route) {
		u.queue(func() { u.navigate(r) })
	}, logger)

	tview.Styles.TitleColor = tcell.ColorMediumPurple
	u.setupMain()
	u.setupSignIn()
	return u
}

// Run starts the event loop and blocks until the user quits or the context
// given to New ends.
func (u *UI) Run() error {
	if token, err := u.deps.Sessions.Token(u.ctx); err != nil || token == "" {
		u.showSignIn()
	} else {
		u.navigate(sidebar.RouteHome)
	}
	stop := context.AfterFunc(u.ctx, u.app.Stop)
	defer stop()
	return u.app.SetRoot(u.pages, true).EnableMouse(true).Run()
}

// Stop ends the event loop.
func (u *UI) Stop() {
	u.app.Stop()
}

// SessionChanged re-reads the stored token and returns to the sign-in page
// when it is gone. It may be called from any goroutine.
func (u *UI) SessionChanged() {
	u.spawn(func() {
		token, err := u.deps.Sessions.Token(u.ctx)
		if err == nil && token != "" {
			return
		}
		u.queue(func() {
			u.closeEditorView()
			u.showSignIn()
			u.setStatus(notify.LevelError, "Session ended")
		})
	})
}

// handleErr routes authentication failures of list reloads to the sign-in
// page. It reports whether it did so. Editor failures never go through it:
// the draft stays open and the editor reports the failure.
func (u *UI) handleErr(err error) bool {
	if err == nil || !api.IsUnauthorized(err) {
		return false
	}
	u.queue(func() {
		u.closeEditorView()
		u.showSignIn()
	})
	return true
}
