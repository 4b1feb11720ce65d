package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/starford/ainotes/internal/editor"
	"github.com/starford/ainotes/internal/notify"
)

// showPicker lists the images under the picker root. Space marks files and
// Enter replaces the pending selection with the marked set.
func (u *UI) showPicker() {
	if u.ev == nil || u.deps.Picker == nil {
		return
	}
	paths, err := u.deps.Picker.List()
	if err != nil {
		u.logger.Error("list images", "error", err.Error())
		u.setStatus(notify.LevelError, "Failed to list images")
		return
	}
	if len(paths) == 0 {
		u.setStatus(notify.LevelError, "No images found in "+u.deps.Picker.Root())
		return
	}

	marked := make([]bool, len(paths))
	list := tview.NewList().ShowSecondaryText(false)
	label := func(i int) string {
		if marked[i] {
			return "[green]✓[-] " + tview.Escape(paths[i])
		}
		return "  " + tview.Escape(paths[i])
	}
	for i := range paths {
		list.AddItem(label(i), "", 0, nil)
	}
	list.SetBorder(true).SetTitle(" Select images (Space mark · Enter done · Esc cancel) ")

	done := func() {
		var chosen []string
		for i, m := range marked {
			if m {
				chosen = append(chosen, paths[i])
			}
		}
		if len(chosen) == 0 {
			chosen = []string{paths[list.GetCurrentItem()]}
		}
		u.applyPicked(chosen)
	}
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEsc:
			u.closePicker()
			return nil
		case event.Key() == tcell.KeyEnter:
			done()
			return nil
		case event.Rune() == ' ':
			i := list.GetCurrentItem()
			marked[i] = !marked[i]
			list.SetItemText(i, label(i), "")
			return nil
		}
		return event
	})

	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(list, 0, 3, true).
			AddItem(nil, 0, 1, false), 0, 2, true).
		AddItem(nil, 0, 1, false)
	u.pages.AddPage(pagePicker, modal, true, true)
	u.app.SetFocus(list)
}

// applyPicked replaces the pending images with the chosen paths.
func (u *UI) applyPicked(paths []string) {
	if u.ev == nil {
		return
	}
	opened, err := u.deps.Picker.Open(paths...)
	if err != nil {
		u.logger.Error("open images", "error", err.Error())
		u.setStatus(notify.LevelError, "Failed to open images")
		return
	}
	files := make([]editor.File, len(opened))
	for i, f := range opened {
		files[i] = f
	}
	u.ev.ed.SelectImages(files...)
	u.closePicker()
	u.renderEditor()
}

func (u *UI) closePicker() {
	u.pages.RemovePage(pagePicker)
	if u.ev != nil {
		u.app.SetFocus(u.ev.root)
	}
}
