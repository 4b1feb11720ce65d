package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/starford/ainotes/internal/models"
	"github.com/starford/ainotes/internal/notify"
	"github.com/starford/ainotes/internal/sidebar"
)

func (u *UI) setupMain() {
	u.nav = tview.NewList().ShowSecondaryText(false)
	for _, item := range sidebar.Items() {
		r := item.Route
		u.nav.AddItem(item.Label, "", 0, func() { u.navigate(r) })
	}
	u.nav.AddItem("[red]Logout[-]", "", 'q', func() {
		u.spawn(func() { u.side.Logout(u.ctx) })
	})
	u.nav.SetBorder(true).SetTitle(" AI Notes ")

	u.list = tview.NewList()
	u.list.SetBorder(true)
	u.list.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		if i >= 0 && i < len(u.visible) {
			u.openEditor(u.visible[i])
		}
	})

	u.status = tview.NewTextView().SetDynamicColors(true)

	body := tview.NewFlex().
		AddItem(u.nav, 22, 0, false).
		AddItem(u.list, 0, 1, true)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(u.status, 1, 0, false)

	root.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlR:
			u.reload()
			return nil
		case tcell.KeyTab:
			if u.app.GetFocus() == u.list {
				u.app.SetFocus(u.nav)
			} else {
				u.app.SetFocus(u.list)
			}
			return nil
		case tcell.KeyCtrlQ:
			u.app.Stop()
			return nil
		}
		return event
	})
	u.pages.AddPage(pageMain, root, true, false)
}

// navigate shows the list for r, or the sign-in page.
func (u *UI) navigate(r sidebar.Route) {
	if r == sidebar.RouteSignIn {
		u.closeEditorView()
		u.showSignIn()
		return
	}
	u.route = r
	u.renderList()
	u.pages.SwitchToPage(pageMain)
	u.app.SetFocus(u.list)
	u.reload()
}

// reload fetches the canonical note collection.
func (u *UI) reload() {
	u.spawn(func() {
		notes, err := u.deps.Notes.ListNotes(u.ctx)
		if err != nil {
			u.logger.Error("list notes", "error", err.Error())
			if !u.handleErr(err) {
				u.queue(func() { u.setStatus(notify.LevelError, "Failed to load notes") })
			}
			return
		}
		u.queue(func() {
			u.notes = notes
			u.renderList()
		})
	})
}

func (u *UI) renderList() {
	u.visible = filterNotes(u.notes, u.route)
	title := " Home "
	if u.route == sidebar.RouteFavorites {
		title = " Favorites "
	}
	u.list.SetTitle(fmt.Sprintf("%s(%d) ", title, len(u.visible)))

	current := u.list.GetCurrentItem()
	u.list.Clear()
	for _, n := range u.visible {
		u.list.AddItem(listTitle(n), listDetail(n), 0, nil)
	}
	if current < u.list.GetItemCount() {
		u.list.SetCurrentItem(current)
	}
}

func filterNotes(notes []models.Note, r sidebar.Route) []models.Note {
	if r != sidebar.RouteFavorites {
		return notes
	}
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if n.Favorite {
			out = append(out, n)
		}
	}
	return out
}

func listTitle(n models.Note) string {
	var b strings.Builder
	if n.Favorite {
		b.WriteString("[yellow]★[-] ")
	}
	if n.IsAudio() {
		b.WriteString("♪ ")
	}
	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(tview.Escape(title))
	return b.String()
}

func listDetail(n models.Note) string {
	content := strings.Join(strings.Fields(n.Content), " ")
	if len([]rune(content)) > 60 {
		content = string([]rune(content)[:60]) + "…"
	}
	if n.CreatedAt.IsZero() {
		return tview.Escape(content)
	}
	return fmt.Sprintf("%s  [gray]%s[-]", tview.Escape(content), formatDate(n.CreatedAt.Time))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02 Jan 2006 · 15:04")
}

// setStatus shows a notification and clears it after statusTTL unless a
// newer one replaced it.
func (u *UI) setStatus(l notify.Level, msg string) {
	color := "green"
	if l == notify.LevelError {
		color = "red"
	}
	u.status.SetText(fmt.Sprintf("[%s]%s[-]", color, tview.Escape(msg)))
	u.statusSeq++
	if u.statusTTL <= 0 {
		return
	}
	seq := u.statusSeq
	time.AfterFunc(u.statusTTL, func() {
		u.queue(func() {
			if u.statusSeq == seq {
				u.status.SetText("")
			}
		})
	})
}
