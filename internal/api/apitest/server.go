// Package apitest provides an in-memory AI Notes backend for tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/ainotes/internal/models"
)

// Route names accepted by Fail.
const (
	RouteGetNote        = "getNote"
	RouteList           = "getAllNotes"
	RouteUpdate         = "update"
	RouteToggleFavorite = "toggleFavourite"
)

// UploadedFile is a file part received by the update endpoint.
type UploadedFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Request is what the server recorded for one call.
type Request struct {
	Route         string
	Method        string
	Path          string
	Authorization string
	ContentType   string
	RequestID     string
	JSON          map[string]any
	Form          map[string][]string
	Files         []UploadedFile
}

// Server is a fake backend speaking the notes REST contract.
type Server struct {
	*httptest.Server

	token string

	mu       sync.Mutex
	notes    map[string]models.Note
	order    []string
	requests []Request
	failures map[string]int
	uploads  int
}

// New starts a server that accepts the given bearer token and serves notes.
// The server is closed when the test ends.
func New(t testing.TB, token string, notes ...models.Note) *Server {
	t.Helper()
	s := &Server{
		token:    token,
		notes:    make(map[string]models.Note),
		failures: make(map[string]int),
	}
	for _, n := range notes {
		s.put(n)
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(authMiddleware(s.token))

	r.Get("/notes/getNote/{id}", s.getNote)
	r.Get("/notes/getAllNotes", s.listNotes)
	r.Put("/notes/update", s.updateNote)
	r.Put("/notes/toggleFavourite", s.toggleFavorite)
	return r
}

// Fail makes every later call to route answer with status until Recover is called.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Recover clears a failure set with Fail.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Note returns the server-side copy of a note.
func (s *Server) Note(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	return cloneNote(n), ok
}

// Put stores or replaces a note.
func (s *Server) Put(n models.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(n)
}

func (s *Server) put(n models.Note) {
	if _, ok := s.notes[n.ID]; !ok {
		s.order = append(s.order, n.ID)
	}
	s.notes[n.ID] = cloneNote(n)
}

// Requests returns the recorded calls in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the recorded calls for one route.
func (s *Server) RequestsTo(route string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// LastRequest returns the most recent call, or false if none arrived.
func (s *Server) LastRequest() (Request, bool) {
	reqs := s.Requests()
	if len(reqs) == 0 {
		return Request{}, false
	}
	return reqs[len(reqs)-1], true
}

func (s *Server) record(r Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r)
}

func (s *Server) failure(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[route]
}

func cloneNote(n models.Note) models.Note {
	if n.ImageURLs != nil {
		n.ImageURLs = append([]string(nil), n.ImageURLs...)
	}
	return n
}
