package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/starford/ainotes/internal/apperr"
	"github.com/starford/ainotes/internal/models"
)

// GetNote handles GET /notes/getNote/{id}.
func (c *Client) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var resp NoteResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint(c.paths.GetNote, id), nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("api: get note %s: %w: missing data", id, apperr.ErrMalformedResponse)
	}
	return resp.Data, nil
}

// ListNotes handles GET /notes/getAllNotes.
func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	var resp NoteListResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint(c.paths.List), nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.Note{}, nil
	}
	return resp.Data, nil
}

// UpdateNote handles PUT /notes/update with a JSON body.
func (c *Client) UpdateNote(ctx context.Context, req UpdateNoteRequest) error {
	if req.ImageURLs == nil {
		req.ImageURLs = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("api: encode update: %w", err)
	}
	return c.do(ctx, http.MethodPut, c.endpoint(c.paths.Update), bytes.NewReader(body), "application/json", nil)
}

// UpdateNoteWithImages handles PUT /notes/update as multipart/form-data,
// uploading files alongside the surviving image URLs.
func (c *Client) UpdateNoteWithImages(ctx context.Context, req UpdateNoteRequest, files []ImageFile) error {
	body, contentType, err := encodeUpdateForm(req, files)
	if err != nil {
		return fmt.Errorf("api: encode update form: %w", err)
	}
	return c.do(ctx, http.MethodPut, c.endpoint(c.paths.Update), body, contentType, nil)
}

// ToggleFavorite handles PUT /notes/toggleFavourite.
func (c *Client) ToggleFavorite(ctx context.Context, id string) error {
	body, err := json.Marshal(ToggleFavoriteRequest{ID: id})
	if err != nil {
		return fmt.Errorf("api: encode toggle: %w", err)
	}
	return c.do(ctx, http.MethodPut, c.endpoint(c.paths.ToggleFavorite), bytes.NewReader(body), "application/json", nil)
}
