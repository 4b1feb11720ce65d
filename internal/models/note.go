// Package models defines the domain types shared by the AI Notes client.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// NoteType tells how a note was captured.
type NoteType string

// Known note types. The backend may send others; they are treated as text.
const (
	NoteTypeText  NoteType = "text"
	NoteTypeAudio NoteType = "audio"
)

// Note is the backend's note entity as seen by the client.
type Note struct {
	ID                 string    `json:"_id"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	Favorite           bool      `json:"favorite"`
	AudioTranscription string    `json:"audioTranscription,omitempty"`
	ImageURLs          []string  `json:"imageUrls"`
	Type               NoteType  `json:"type,omitempty"`
	CreatedAt          Timestamp `json:"createdAt"`
}

// IsAudio reports whether the note carries a recording.
func (n Note) IsAudio() bool {
	return n.Type == NoteTypeAudio
}

// Timestamp is a time.Time that tolerates the empty string and null,
// both of which the backend sends for notes without a creation date, and
// epoch milliseconds.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		var ms int64
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	var parsed time.Time
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time)
}
