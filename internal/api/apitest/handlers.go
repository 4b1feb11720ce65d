package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ainotes/internal/models"
)

const maxBodyBytes = 60 << 20

// getNote handles GET /notes/getNote/{id}.
func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.record(baseRequest(RouteGetNote, r))
	if status := s.failure(RouteGetNote); status != 0 {
		writeJSON(w, status, errorBody("forced failure"))
		return
	}
	n, ok := s.Note(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": n})
}

// listNotes handles GET /notes/getAllNotes.
func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	s.record(baseRequest(RouteList, r))
	if status := s.failure(RouteList); status != 0 {
		writeJSON(w, status, errorBody("forced failure"))
		return
	}
	s.mu.Lock()
	out := make([]models.Note, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneNote(s.notes[id]))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// updateNote handles PUT /notes/update, both JSON and multipart.
func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	rec := baseRequest(RouteUpdate, r)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var upd update
	var err error
	if mediaType == "multipart/form-data" {
		upd, err = s.decodeForm(r, &rec)
	} else {
		upd, err = decodeJSONUpdate(r, &rec)
	}
	s.record(rec)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if status := s.failure(RouteUpdate); status != 0 {
		writeJSON(w, status, errorBody("forced failure"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[upd.ID]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
		return
	}
	n.Title = upd.Title
	n.Content = upd.Content
	n.Favorite = upd.Favorite
	n.AudioTranscription = upd.AudioTranscription
	n.ImageURLs = append(append([]string{}, upd.ImageURLs...), upd.uploaded...)
	s.notes[n.ID] = n
	writeJSON(w, http.StatusOK, map[string]any{"message": "Note updated", "data": cloneNote(n)})
}

// toggleFavorite handles PUT /notes/toggleFavourite.
func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	rec := baseRequest(RouteToggleFavorite, r)
	var body map[string]any
	err := json.NewDecoder(r.Body).Decode(&body)
	rec.JSON = body
	s.record(rec)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if status := s.failure(RouteToggleFavorite); status != 0 {
		writeJSON(w, status, errorBody("forced failure"))
		return
	}
	id, _ := body["id"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
		return
	}
	n.Favorite = !n.Favorite
	s.notes[id] = n
	writeJSON(w, http.StatusOK, map[string]any{"data": cloneNote(n)})
}

type update struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Content            string   `json:"content"`
	Favorite           bool     `json:"favorite"`
	AudioTranscription string   `json:"audioTranscription"`
	ImageURLs          []string `json:"imageUrls"`

	uploaded []string
}

func decodeJSONUpdate(r *http.Request, rec *Request) (update, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return update{}, fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(raw, &rec.JSON); err != nil {
		return update{}, fmt.Errorf("invalid JSON body")
	}
	var upd update
	if err := json.Unmarshal(raw, &upd); err != nil {
		return update{}, fmt.Errorf("invalid JSON body")
	}
	return upd, nil
}

func (s *Server) decodeForm(r *http.Request, rec *Request) (update, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return update{}, fmt.Errorf("invalid multipart: %w", err)
	}
	rec.Form = make(map[string][]string)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return update{}, fmt.Errorf("invalid multipart: %w", err)
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return update{}, fmt.Errorf("read part: %w", err)
		}
		if part.FileName() != "" {
			rec.Files = append(rec.Files, UploadedFile{
				Field:       part.FormName(),
				Name:        part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Data:        data,
			})
			continue
		}
		rec.Form[part.FormName()] = append(rec.Form[part.FormName()], string(data))
	}

	get := func(k string) string {
		if v := rec.Form[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	upd := update{
		ID:                 get("id"),
		Title:              get("title"),
		Content:            get("content"),
		AudioTranscription: get("audioTranscription"),
	}
	upd.Favorite, _ = strconv.ParseBool(get("favorite"))
	if raw := get("imageUrls"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &upd.ImageURLs); err != nil {
			return update{}, fmt.Errorf("imageUrls is not a JSON array")
		}
	}
	s.mu.Lock()
	for _, f := range rec.Files {
		s.uploads++
		upd.uploaded = append(upd.uploaded, fmt.Sprintf("/uploads/%d-%s", s.uploads, f.Name))
	}
	s.mu.Unlock()
	return upd, nil
}

func baseRequest(route string, r *http.Request) Request {
	return Request{
		Route:         route,
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   strings.TrimSpace(r.Header.Get("Content-Type")),
		RequestID:     r.Header.Get("X-Request-ID"),
	}
}
