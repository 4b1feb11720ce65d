package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	want := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	cases := map[string]time.Time{
		`"2025-03-01T09:30:00Z"`: want,
		`1740821400000`:          want,
		`null`:                   {},
		`""`:                     {},
	}
	for in, exp := range cases {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err != nil {
			t.Fatalf("Unmarshal(%s): %v", in, err)
		}
		if !ts.Equal(exp) {
			t.Errorf("Unmarshal(%s) = %v, want %v", in, ts.Time, exp)
		}
	}
}

func TestNote_NumericCreatedAt(t *testing.T) {
	var n Note
	raw := `{"_id":"42","imageUrls":["a.png","b.png"],"createdAt":1740821400000}`
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(n.ImageURLs) != 2 {
		t.Errorf("ImageURLs = %v, want 2 entries", n.ImageURLs)
	}
	if n.CreatedAt.Year() != 2025 {
		t.Errorf("CreatedAt = %v, want 2025", n.CreatedAt.Time)
	}
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`true`), &ts); err == nil {
		t.Error("expected an error for a boolean timestamp")
	}
}
