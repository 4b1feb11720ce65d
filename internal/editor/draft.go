package editor

import (
	"slices"
	"time"

	"github.com/starford/ainotes/internal/api"
	"github.com/starford/ainotes/internal/models"
)

// File is a local image selected for upload.
type File = api.ImageFile

// Draft is the editor's uncommitted copy of a note's editable fields.
// Values returned by the editor are copies; mutating them has no effect.
type Draft struct {
	Title              string
	Content            string
	Favorite           bool
	AudioTranscription string
	// ExistingImages are server-hosted image URLs. Only removal is allowed.
	ExistingImages []string
	// SelectedImages are new files, replaced wholesale on each selection.
	SelectedImages []File
	// Date is the note's creation time as reported by the detail fetch.
	Date time.Time
}

// newDraft mirrors the opening note. Date stays zero until the detail fetch.
func newDraft(n models.Note) Draft {
	images := n.ImageURLs
	if images == nil {
		images = []string{}
	}
	return Draft{
		Title:              n.Title,
		Content:            n.Content,
		Favorite:           n.Favorite,
		AudioTranscription: n.AudioTranscription,
		ExistingImages:     slices.Clone(images),
	}
}

func (d Draft) clone() Draft {
	d.ExistingImages = slices.Clone(d.ExistingImages)
	d.SelectedImages = slices.Clone(d.SelectedImages)
	return d
}

// HasNewImages reports whether saving will use the multipart encoding.
func (d Draft) HasNewImages() bool {
	return len(d.SelectedImages) > 0
}

func (d Draft) updateRequest(id string) api.UpdateNoteRequest {
	images := d.ExistingImages
	if images == nil {
		images = []string{}
	}
	return api.UpdateNoteRequest{
		ID:                 id,
		Title:              d.Title,
		Content:            d.Content,
		Favorite:           d.Favorite,
		AudioTranscription: d.AudioTranscription,
		ImageURLs:          images,
	}
}
