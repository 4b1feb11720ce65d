package editor

import (
	"fmt"
	"strings"
)

// Tab selects which fields the editor shows. It has no effect on the draft.
type Tab int

const (
	TabNotes Tab = iota
	TabTranscript
	TabCreate
	TabSpeaker
)

var tabNames = [...]string{
	TabNotes:      "notes",
	TabTranscript: "transcript",
	TabCreate:     "create",
	TabSpeaker:    "speaker",
}

var tabLabels = [...]string{
	TabNotes:      "Notes",
	TabTranscript: "Transcript",
	TabCreate:     "Create",
	TabSpeaker:    "Speaker Transcript",
}

// Tabs returns every tab in display order.
func Tabs() []Tab {
	return []Tab{TabNotes, TabTranscript, TabCreate, TabSpeaker}
}

// Valid reports whether t is one of the four tabs.
func (t Tab) Valid() bool {
	return t >= TabNotes && t <= TabSpeaker
}

func (t Tab) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabNames[t]
}

// Label is the heading shown above the tab's fields.
func (t Tab) Label() string {
	if !t.Valid() {
		return t.String()
	}
	return tabLabels[t]
}

// ShowsTitle reports whether the title field is editable on this tab.
func (t Tab) ShowsTitle() bool {
	return t == TabNotes || t == TabCreate
}

// ShowsImages reports whether the image section is shown on this tab.
func (t Tab) ShowsImages() bool {
	return t != TabSpeaker
}

// CanCopy reports whether the tab offers a copy-to-clipboard action.
func (t Tab) CanCopy() bool {
	return t == TabTranscript
}

// ParseTab converts a tab name to a Tab. Matching is case-insensitive.
func ParseTab(s string) (Tab, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tabs() {
		if tabNames[t] == name {
			return t, nil
		}
	}
	return TabNotes, fmt.Errorf("editor: unknown tab %q", s)
}
