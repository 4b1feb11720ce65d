package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/starford/ainotes/internal/editor"
	"github.com/starford/ainotes/internal/models"
)

// editorView renders one open editor.
type editorView struct {
	ed *editor.Editor

	root     *tview.Flex
	header   *tview.TextView
	audio    *tview.TextView
	tabs     *tview.TextView
	fields   *tview.Flex
	title    *tview.InputField
	content  *tview.TextArea
	copyBtn  *tview.Button
	images   *tview.List
	pending  *tview.TextView
	addBtn   *tview.Button
	controls *tview.Flex
}

func (u *UI) openEditor(n models.Note) {
	u.closeEditorView()

	var ev *editorView
	ed := editor.New(n, editor.Deps{
		Notes:    u.deps.Notes,
		Notifier: u.notifier,
		Sharer:   u.deps.Sharer,
		BaseURL:  u.deps.BaseURL,
		Refresh:  u.reload,
		// Close may run on the UI goroutine, so hop off it before queueing.
		OnClose: func() {
			u.spawn(func() {
				u.queue(func() {
					if u.ev == ev {
						u.closeEditorView()
					}
				})
			})
		},
		Logger: u.logger,
	})
	ev = u.buildEditorView(ed)
	u.ev = ev
	u.showEditorPage()

	u.spawn(func() {
		// A failed fetch keeps the listed values; the editor logs it.
		if err := ed.LoadDetail(u.ctx); err != nil {
			return
		}
		u.queue(func() {
			if u.ev == ev {
				u.renderEditor()
			}
		})
	})
}

func (u *UI) buildEditorView(ed *editor.Editor) *editorView {
	d := ed.Draft()
	ev := &editorView{ed: ed}

	ev.header = tview.NewTextView().SetDynamicColors(true)
	ev.audio = tview.NewTextView().SetDynamicColors(true).
		SetText("[purple]♪[-] Audio recording · transcription on the Transcript tab")
	ev.tabs = tview.NewTextView().SetDynamicColors(true).SetRegions(true)

	ev.title = tview.NewInputField().SetLabel("Title ").SetText(d.Title)
	ev.title.SetChangedFunc(ed.SetTitle)
	ev.content = tview.NewTextArea().SetPlaceholder("Write your note…")
	ev.content.SetText(d.Content, false)
	ev.content.SetChangedFunc(func() { ed.SetContent(ev.content.GetText()) })

	ev.copyBtn = tview.NewButton("Copy").SetSelectedFunc(func() {
		u.spawn(func() { _ = ed.CopyTranscript() })
	})

	ev.images = tview.NewList().ShowSecondaryText(false)
	ev.images.SetBorder(true).SetTitle(" Images (Enter removes) ")
	ev.images.SetSelectedFunc(func(_ int, main, _ string, _ rune) {
		ed.RemoveExistingImage(main)
		u.renderEditor()
	})
	ev.pending = tview.NewTextView().SetDynamicColors(true)
	ev.addBtn = tview.NewButton("Add images").SetSelectedFunc(u.showPicker)

	ev.fields = tview.NewFlex().SetDirection(tview.FlexRow)

	save := tview.NewButton("Save").SetSelectedFunc(func() {
		u.spawn(func() {
			_ = ed.Save(u.ctx)
		})
	})
	cancel := tview.NewButton("Cancel").SetSelectedFunc(func() {
		u.spawn(ed.Close)
	})
	ev.controls = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(cancel, 10, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(save, 10, 0, false)

	ev.root = tview.NewFlex().SetDirection(tview.FlexRow)
	ev.root.SetBorder(true).
		SetTitle(" Ctrl+S Save · Ctrl+F Favourite · Ctrl+O Share · Ctrl+L Fullscreen · Esc Close ")
	ev.root.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		return u.editorKey(ev, event)
	})
	return ev
}

func (u *UI) editorKey(ev *editorView, event *tcell.EventKey) *tcell.EventKey {
	ed := ev.ed
	switch event.Key() {
	case tcell.KeyEsc:
		u.spawn(ed.Close)
		return nil
	case tcell.KeyCtrlS:
		u.spawn(func() {
			_ = ed.Save(u.ctx)
		})
		return nil
	case tcell.KeyCtrlF:
		u.spawn(func() {
			if err := ed.ToggleFavorite(u.ctx); err != nil {
				return
			}
			u.queue(func() {
				if u.ev == ev {
					u.renderEditor()
				}
			})
		})
		return nil
	case tcell.KeyCtrlO:
		u.spawn(func() { _ = ed.Share(u.ctx) })
		return nil
	case tcell.KeyCtrlL:
		ed.ToggleFullscreen()
		u.showEditorPage()
		return nil
	case tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4:
		u.switchTab(editor.Tabs()[event.Key()-tcell.KeyF1])
		return nil
	}
	return event
}

func (u *UI) switchTab(t editor.Tab) {
	if u.ev == nil {
		return
	}
	u.ev.ed.SetTab(t)
	u.renderEditor()
}

// showEditorPage (re)mounts the editor page, centred unless fullscreen.
func (u *UI) showEditorPage() {
	ev := u.ev
	if ev == nil {
		return
	}
	u.renderEditor()

	var page tview.Primitive = ev.root
	if !ev.ed.Fullscreen() {
		page = tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
				AddItem(nil, 0, 1, false).
				AddItem(ev.root, 0, 8, true).
				AddItem(nil, 0, 1, false), 0, 8, true).
			AddItem(nil, 0, 1, false)
	}
	u.pages.AddPage(pageEditor, page, true, true)
	u.app.SetFocus(ev.root)
}

// renderEditor redraws the editor from the editor's state.
func (u *UI) renderEditor() {
	ev := u.ev
	if ev == nil {
		return
	}
	ed := ev.ed
	d := ed.Draft()
	tab := ed.Tab()

	star := "☆"
	if ed.Favourite() {
		star = "[yellow]★[-]"
	}
	ev.header.SetText(fmt.Sprintf("[::b]%s[::-]  %s  [gray]%s[-]",
		tview.Escape(d.Title), star, formatDate(d.Date)))

	var tabs []string
	for i, t := range editor.Tabs() {
		label := fmt.Sprintf("F%d %s", i+1, t.Label())
		if t == tab {
			label = "[black:purple] " + label + " [-:-]"
		} else {
			label = " " + label + " "
		}
		tabs = append(tabs, label)
	}
	ev.tabs.SetText(strings.Join(tabs, " "))

	ev.images.Clear()
	for _, url := range d.ExistingImages {
		ev.images.AddItem(url, "", 0, nil)
	}
	if len(d.SelectedImages) == 0 {
		ev.pending.SetText("[gray]No new images selected[-]")
	} else {
		names := make([]string, len(d.SelectedImages))
		for i, f := range d.SelectedImages {
			names[i] = f.Name()
		}
		ev.pending.SetText("New: " + tview.Escape(strings.Join(names, ", ")))
	}

	ev.fields.Clear()
	ev.fields.AddItem(tview.NewTextView().SetText(tab.Label()).SetTextColor(tcell.ColorMediumPurple), 1, 0, false)
	if tab.ShowsTitle() {
		ev.fields.AddItem(ev.title, 1, 0, false)
	}
	ev.fields.AddItem(ev.content, 0, 1, true)
	if tab.CanCopy() {
		ev.fields.AddItem(tview.NewFlex().AddItem(nil, 0, 1, false).AddItem(ev.copyBtn, 8, 0, false), 1, 0, false)
	}
	if tab.ShowsImages() {
		ev.fields.AddItem(ev.images, 6, 0, false)
		row := tview.NewFlex().AddItem(ev.pending, 0, 1, false)
		if u.deps.Picker != nil {
			row.AddItem(ev.addBtn, 14, 0, false)
		}
		ev.fields.AddItem(row, 1, 0, false)
	}

	ev.root.Clear()
	ev.root.AddItem(ev.header, 1, 0, false)
	if ed.IsAudio() {
		ev.root.AddItem(ev.audio, 1, 0, false)
	}
	ev.root.AddItem(ev.tabs, 1, 0, false)
	ev.root.AddItem(ev.fields, 0, 1, true)
	ev.root.AddItem(ev.controls, 1, 0, false)
}

func (u *UI) closeEditorView() {
	if u.ev == nil {
		return
	}
	ev := u.ev
	u.ev = nil
	if !ev.ed.Closed() {
		ev.ed.Close()
	}
	u.pages.RemovePage(pagePicker)
	u.pages.RemovePage(pageEditor)
	u.app.SetFocus(u.list)
}
