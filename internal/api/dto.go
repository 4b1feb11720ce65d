package api

import "github.com/starford/ainotes/internal/models"

// UpdateNoteRequest is the body of PUT /notes/update.
// With new images it is sent as multipart fields instead of JSON.
type UpdateNoteRequest struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Content            string   `json:"content"`
	Favorite           bool     `json:"favorite"`
	AudioTranscription string   `json:"audioTranscription"`
	ImageURLs          []string `json:"imageUrls"`
}

// ToggleFavoriteRequest is the body of PUT /notes/toggleFavourite.
type ToggleFavoriteRequest struct {
	ID string `json:"id"`
}

// NoteResponse wraps a single note.
type NoteResponse struct {
	Data *models.Note `json:"data"`
}

// NoteListResponse wraps the note collection.
type NoteListResponse struct {
	Data []models.Note `json:"data"`
}
