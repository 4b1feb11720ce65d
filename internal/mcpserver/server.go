// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes AI Notes tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ainotes/internal/editor"
	"github.com/starford/ainotes/internal/models"
	"github.com/starford/ainotes/internal/notify"
	"github.com/starford/ainotes/internal/parser"
)

// NoteService is the backend surface the tools need.
type NoteService interface {
	editor.NoteService
	ListNotes(ctx context.Context) ([]models.Note, error)
}

// Server wraps the MCP server with note tools.
type Server struct {
	mcp     *server.MCPServer
	notes   NoteService
	baseURL string
	logger  *slog.Logger
	fetch   func(ctx context.Context, rawURL string) ([]byte, string, error)
}

// New creates a new MCP server with all note tools registered.
func New(notes NoteService, baseURL string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{notes: notes, baseURL: baseURL, logger: logger, fetch: fetchHTTP}

	s.mcp = server.NewMCPServer(
		"AI Notes",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes with their id, title, favourite flag, type and creation time."),
		mcp.WithBoolean("favorites", mcp.Description("Only list favourite notes")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Read a note, including its images, as Markdown with YAML frontmatter."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Update a note. Omitted fields keep their current value. "+
			"Read the format first via the note-format resource."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithBoolean("favorite", mcp.Description("Favourite flag sent with the update")),
		mcp.WithString("transcription", mcp.Description("New audio transcription")),
		mcp.WithArray("remove_images",
			mcp.Description("Existing image URLs to detach"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("toggle_favorite",
		mcp.WithDescription("Flip a note's favourite flag immediately."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
	), s.toggleFavorite)

	s.mcp.AddTool(mcp.NewTool("attach_image",
		mcp.WithDescription("Upload an image to a note from an http(s) URL or a base64 data URI."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note identifier")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Image URL or data:image/...;base64,... URI")),
		mcp.WithString("filename", mcp.Description("Optional filename, e.g. receipt.png")),
	), s.attachImage)

	s.mcp.AddResource(
		mcp.NewResource("ainotes://note-format", "Note Format",
			mcp.WithResourceDescription("How get_note renders notes and what update_note accepts."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// open starts an editor over the listed note and loads its detail. The
// recorder collects the editor's notifications for the tool result.
func (s *Server) open(ctx context.Context, id string) (*editor.Editor, *notify.Recorder, error) {
	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list notes: %w", err)
	}
	var note *models.Note
	for i := range notes {
		if notes[i].ID == id {
			note = &notes[i]
			break
		}
	}
	if note == nil {
		return nil, nil, fmt.Errorf("note not found: %s", id)
	}

	rec := &notify.Recorder{}
	ed := editor.New(*note, editor.Deps{
		Notes:    s.notes,
		Notifier: rec,
		BaseURL:  s.baseURL,
		Logger:   s.logger,
	})
	if err := ed.LoadDetail(ctx); err != nil {
		s.logger.Warn("mcp: note detail unavailable", slog.String("id", id), slog.String("error", err.Error()))
	}
	return ed, rec, nil
}

// outcome turns an editor operation into a tool result carrying the
// notification text.
func outcome(rec *notify.Recorder, err error) *mcp.CallToolResult {
	msg, ok := rec.Last()
	if err != nil {
		if ok {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg.Text, err))
		}
		return mcp.NewToolResultError(err.Error())
	}
	if !ok {
		return mcp.NewToolResultText("ok")
	}
	return mcp.NewToolResultText(msg.Text)
}

type noteSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Favorite  bool   `json:"favorite"`
	Type      string `json:"type,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	favorites := req.GetBool("favorites", false)

	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]noteSummary, 0, len(notes))
	for _, n := range notes {
		if favorites && !n.Favorite {
			continue
		}
		sum := noteSummary{ID: n.ID, Title: n.Title, Favorite: n.Favorite, Type: string(n.Type)}
		if !n.CreatedAt.IsZero() {
			sum.CreatedAt = n.CreatedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, sum)
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ed, _, err := s.open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer ed.Close()

	data, err := parser.Render(snapshot(ed))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// snapshot merges the draft into the opening note for rendering.
func snapshot(ed *editor.Editor) models.Note {
	n := ed.Note()
	d := ed.Draft()
	n.Title = d.Title
	n.Content = d.Content
	n.Favorite = ed.Favourite()
	n.AudioTranscription = d.AudioTranscription
	n.ImageURLs = d.ExistingImages
	if !d.Date.IsZero() {
		n.CreatedAt = models.Timestamp{Time: d.Date}
	}
	return n
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ed, rec, err := s.open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer ed.Close()

	args := req.GetArguments()
	if v, ok := args["title"].(string); ok {
		ed.SetTitle(v)
	}
	if v, ok := args["content"].(string); ok {
		ed.SetContent(v)
	}
	if v, ok := args["transcription"].(string); ok {
		ed.SetAudioTranscription(v)
	}
	if v, ok := args["favorite"].(bool); ok {
		ed.SetFavorite(v)
	}
	for _, u := range req.GetStringSlice("remove_images", nil) {
		ed.RemoveExistingImage(strings.TrimSpace(u))
	}

	return outcome(rec, ed.Save(ctx)), nil
}

func (s *Server) toggleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ed, rec, err := s.open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer ed.Close()

	return outcome(rec, ed.ToggleFavorite(ctx)), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ainotes://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
