package editor

import "testing"

func TestParseTab(t *testing.T) {
	tests := []struct {
		in   string
		want Tab
	}{
		{"notes", TabNotes},
		{"Transcript", TabTranscript},
		{" create ", TabCreate},
		{"SPEAKER", TabSpeaker},
	}
	for _, tt := range tests {
		got, err := ParseTab(tt.in)
		if err != nil {
			t.Errorf("ParseTab(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTab(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseTab("summary"); err == nil {
		t.Error("ParseTab(summary): expected error")
	}
}

func TestTabFields(t *testing.T) {
	for _, tab := range Tabs() {
		if got, err := ParseTab(tab.String()); err != nil || got != tab {
			t.Errorf("round trip %v = %v, %v", tab, got, err)
		}
	}
	if TabSpeaker.ShowsImages() {
		t.Error("speaker tab should hide images")
	}
	if !TabTranscript.ShowsImages() {
		t.Error("transcript tab should show images")
	}
	if TabTranscript.ShowsTitle() || TabSpeaker.ShowsTitle() {
		t.Error("transcript and speaker tabs edit content only")
	}
	if !TabCreate.ShowsTitle() {
		t.Error("create tab should show title")
	}
	if !TabTranscript.CanCopy() || TabNotes.CanCopy() {
		t.Error("only the transcript tab offers copy")
	}
	if TabSpeaker.Label() != "Speaker Transcript" {
		t.Errorf("label = %q", TabSpeaker.Label())
	}
	if Tab(7).Valid() {
		t.Error("Tab(7) should be invalid")
	}
}
