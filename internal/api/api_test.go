package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starford/ainotes/internal/api"
	"github.com/starford/ainotes/internal/api/apitest"
	"github.com/starford/ainotes/internal/apperr"
	"github.com/starford/ainotes/internal/models"
)

const testToken = "tok-123"

type memFile struct {
	name string
	data string
}

func (f memFile) Name() string { return f.name }

func (f memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.data)), nil
}

func shoppingNote() models.Note {
	return models.Note{
		ID:        "42",
		Title:     "Shopping",
		Content:   "Milk, eggs",
		ImageURLs: []string{"a.png", "b.png"},
		CreatedAt: models.Timestamp{Time: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)},
	}
}

func testClient(t *testing.T, token string, notes ...models.Note) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t, testToken, notes...)
	c, err := api.New(srv.URL, api.StaticToken(token))
	require.NoError(t, err)
	return c, srv
}

func TestNew_RejectsNonHTTPBaseURL(t *testing.T) {
	_, err := api.New("ftp://example.com", api.StaticToken("x"))
	require.Error(t, err)
}

func TestGetNote(t *testing.T) {
	c, srv := testClient(t, testToken, shoppingNote())

	n, err := c.GetNote(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "Shopping", n.Title)
	require.Equal(t, []string{"a.png", "b.png"}, n.ImageURLs)
	require.Equal(t, 2025, n.CreatedAt.Year())

	req, ok := srv.LastRequest()
	require.True(t, ok)
	require.Equal(t, http.MethodGet, req.Method)
	require.Equal(t, "/notes/getNote/42", req.Path)
	require.Equal(t, "Bearer "+testToken, req.Authorization)
	require.NotEmpty(t, req.RequestID)
}

func TestGetNote_NotFound(t *testing.T) {
	c, _ := testClient(t, testToken)

	_, err := c.GetNote(context.Background(), "missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.Code)
	require.Equal(t, "Note not found", se.Message)
}

func TestGetNote_WrongToken(t *testing.T) {
	c, _ := testClient(t, "stale", shoppingNote())

	_, err := c.GetNote(context.Background(), "42")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	require.True(t, api.IsUnauthorized(err))
}

func TestGetNote_NoSessionSendsNothing(t *testing.T) {
	c, srv := testClient(t, "", shoppingNote())

	_, err := c.GetNote(context.Background(), "42")
	require.ErrorIs(t, err, apperr.ErrNoSession)
	require.Empty(t, srv.Requests())
}

func TestGetNote_ServerError(t *testing.T) {
	c, srv := testClient(t, testToken, shoppingNote())
	srv.Fail(apitest.RouteGetNote, http.StatusInternalServerError)

	_, err := c.GetNote(context.Background(), "42")
	require.ErrorIs(t, err, apperr.ErrUnexpectedStatus)
}

func TestGetNote_MissingData(t *testing.T) {
	srv := http.NewServeMux()
	srv.HandleFunc("/notes/getNote/42", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	ts := newRawServer(t, srv)
	c, err := api.New(ts, api.StaticToken(testToken))
	require.NoError(t, err)

	_, err = c.GetNote(context.Background(), "42")
	require.ErrorIs(t, err, apperr.ErrMalformedResponse)
}

func TestGetNote_EscapesID(t *testing.T) {
	c, srv := testClient(t, testToken)

	_, _ = c.GetNote(context.Background(), "a b")
	req, ok := srv.LastRequest()
	require.True(t, ok)
	require.Equal(t, "/notes/getNote/a b", req.Path)
}

func TestListNotes(t *testing.T) {
	second := models.Note{ID: "7", Title: "Ideas", Favorite: true}
	c, _ := testClient(t, testToken, shoppingNote(), second)

	notes, err := c.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "42", notes[0].ID)
	require.True(t, notes[1].Favorite)
}

func TestUpdateNote_JSON(t *testing.T) {
	c, srv := testClient(t, testToken, shoppingNote())

	err := c.UpdateNote(context.Background(), api.UpdateNoteRequest{
		ID:        "42",
		Title:     "Shopping",
		Content:   "Milk, eggs",
		ImageURLs: []string{"b.png"},
	})
	require.NoError(t, err)

	req, _ := srv.LastRequest()
	require.Equal(t, http.MethodPut, req.Method)
	require.Equal(t, "application/json", req.ContentType)
	require.Equal(t, map[string]any{
		"id":                 "42",
		"title":              "Shopping",
		"content":            "Milk, eggs",
		"favorite":           false,
		"audioTranscription": "",
		"imageUrls":          []any{"b.png"},
	}, req.JSON)

	n, _ := srv.Note("42")
	require.Equal(t, []string{"b.png"}, n.ImageURLs)
}

func TestUpdateNote_NilImagesEncodeAsEmptyArray(t *testing.T) {
	c, srv := testClient(t, testToken, shoppingNote())

	require.NoError(t, c.UpdateNote(context.Background(), api.UpdateNoteRequest{ID: "42"}))
	req, _ := srv.LastRequest()
	require.Equal(t, []any{}, req.JSON["imageUrls"])
}

func TestUpdateNoteWithImages_Multipart(t *testing.T) {
	c, srv := testClient(t, testToken, shoppingNote())

	err := c.UpdateNoteWithImages(context.Background(), api.UpdateNoteRequest{
		ID:                 "42",
		Title:              "Shopping",
		Content:            "Milk, eggs, bread",
		Favorite:           true,
		AudioTranscription: "milk eggs bread",
		ImageURLs:          []string{"b.png"},
	}, []api.ImageFile{
		memFile{name: "receipt.png", data: "png-bytes"},
		memFile{name: "/tmp/shelf.jpg", data: "jpg-bytes"},
	})
	require.NoError(t, err)

	req, _ := srv.LastRequest()
	require.True(t, strings.HasPrefix(req.ContentType, "multipart/form-data"))
	require.Equal(t, []string{"42"}, req.Form["id"])
	require.Equal(t, []string{"true"}, req.Form["favorite"])
	require.Equal(t, []string{"milk eggs bread"}, req.Form["audioTranscription"])
	require.Equal(t, []string{`["b.png"]`}, req.Form["imageUrls"])

	require.Len(t, req.Files, 2)
	require.Equal(t, "images", req.Files[0].Field)
	require.Equal(t, "receipt.png", req.Files[0].Name)
	require.Equal(t, "image/png", req.Files[0].ContentType)
	require.Equal(t, "png-bytes", string(req.Files[0].Data))
	require.Equal(t, "shelf.jpg", req.Files[1].Name)

	n, _ := srv.Note("42")
	require.Len(t, n.ImageURLs, 3)
	require.Equal(t, "b.png", n.ImageURLs[0])
}

func TestUpdateNoteWithImages_EmptyExistingList(t *testing.T) {
	c, srv := testClient(t, testToken, shoppingNote())

	err := c.UpdateNoteWithImages(context.Background(), api.UpdateNoteRequest{ID: "42"},
		[]api.ImageFile{memFile{name: "x.png", data: "x"}})
	require.NoError(t, err)

	req, _ := srv.LastRequest()
	var urls []string
	require.NoError(t, json.Unmarshal([]byte(req.Form["imageUrls"][0]), &urls))
	require.Empty(t, urls)
	require.Equal(t, `[]`, req.Form["imageUrls"][0])
}

func TestToggleFavorite(t *testing.T) {
	c, srv := testClient(t, testToken, shoppingNote())

	require.NoError(t, c.ToggleFavorite(context.Background(), "42"))

	req, _ := srv.LastRequest()
	require.Equal(t, "/notes/toggleFavourite", req.Path)
	require.Equal(t, map[string]any{"id": "42"}, req.JSON)
	n, _ := srv.Note("42")
	require.True(t, n.Favorite)
}

func TestToggleFavorite_ServerError(t *testing.T) {
	c, srv := testClient(t, testToken, shoppingNote())
	srv.Fail(apitest.RouteToggleFavorite, http.StatusInternalServerError)

	err := c.ToggleFavorite(context.Background(), "42")
	require.ErrorIs(t, err, apperr.ErrUnexpectedStatus)
	n, _ := srv.Note("42")
	require.False(t, n.Favorite)
}

func TestCustomPathsAndBasePrefix(t *testing.T) {
	mux := http.NewServeMux()
	var gotPath string
	mux.HandleFunc("/v2/notes/fav", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	base := newRawServer(t, mux) + "/v2/"

	paths := api.DefaultPaths()
	paths.ToggleFavorite = "/notes/fav"
	c, err := api.New(base, api.StaticToken(testToken), api.WithPaths(paths))
	require.NoError(t, err)

	require.NoError(t, c.ToggleFavorite(context.Background(), "1"))
	require.Equal(t, "/v2/notes/fav", gotPath)
}

func TestWithTimeout_CopiesSharedClient(t *testing.T) {
	url := newRawServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))

	orders := map[string]func(hc *http.Client) []api.Option{
		"timeout first": func(hc *http.Client) []api.Option {
			return []api.Option{api.WithTimeout(50 * time.Millisecond), api.WithHTTPClient(hc)}
		},
		"timeout last": func(hc *http.Client) []api.Option {
			return []api.Option{api.WithHTTPClient(hc), api.WithTimeout(50 * time.Millisecond)}
		},
	}
	for name, opts := range orders {
		t.Run(name, func(t *testing.T) {
			shared := &http.Client{}
			c, err := api.New(url, api.StaticToken(testToken), opts(shared)...)
			require.NoError(t, err)

			start := time.Now()
			_, err = c.GetNote(context.Background(), "42")
			require.Error(t, err)
			require.Less(t, time.Since(start), time.Second, "timeout applied")
			require.Zero(t, shared.Timeout, "shared client untouched")
		})
	}
}
