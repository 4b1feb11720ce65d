package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/starford/ainotes/internal/editor"
	"github.com/starford/ainotes/internal/parser"
	"github.com/starford/ainotes/internal/storage"
)

// List prints the note collection as a table.
func List(ctx context.Context, env *Env, favorites bool) error {
	notes, err := env.Notes.ListNotes(ctx)
	if err != nil {
		env.logger().Error("list notes", "error", err.Error())
		return fmt.Errorf("list notes: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(env.Out)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"ID", "Title", "Fav", "Type", "Created"})

	count := 0
	for _, n := range notes {
		if favorites && !n.Favorite {
			continue
		}
		star := ""
		if n.Favorite {
			star = text.FgYellow.Sprint("★")
		}
		t.AppendRow(table.Row{n.ID, n.Title, star, string(n.Type), formatTime(n.CreatedAt.Time)})
		count++
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d notes", count)})
	t.Render()
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// ShowOptions controls Show's output.
type ShowOptions struct {
	Markdown bool
	// OutFile writes the Markdown rendering to a file instead of Out.
	OutFile string
}

// Show prints a note after loading its detail.
func Show(ctx context.Context, env *Env, id string, opts ShowOptions) error {
	ed, err := env.open(ctx, id)
	if err != nil {
		return err
	}
	defer ed.Close()
	n := snapshot(ed)

	if opts.Markdown || opts.OutFile != "" {
		data, err := parser.Render(n)
		if err != nil {
			return err
		}
		if opts.OutFile != "" {
			if err := storage.WriteFile(opts.OutFile, data); err != nil {
				return err
			}
			fmt.Fprintf(env.Out, "Wrote %s\n", opts.OutFile)
			return nil
		}
		_, err = env.Out.Write(data)
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(env.Out)
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"ID", n.ID})
	t.AppendRow(table.Row{"Title", n.Title})
	t.AppendRow(table.Row{"Favourite", n.Favorite})
	if n.Type != "" {
		t.AppendRow(table.Row{"Type", string(n.Type)})
	}
	t.AppendRow(table.Row{"Created", formatTime(n.CreatedAt.Time)})
	t.AppendRow(table.Row{"Images", strings.Join(n.ImageURLs, "\n")})
	if n.AudioTranscription != "" {
		t.AppendRow(table.Row{"Transcription", n.AudioTranscription})
	}
	t.Render()
	fmt.Fprintln(env.Out)
	fmt.Fprintln(env.Out, n.Content)
	return nil
}

// UpdateOptions lists the edits applied to the draft before saving. Nil
// fields are left alone.
type UpdateOptions struct {
	Title         *string
	Content       *string
	Transcription *string
	Favorite      *bool
	// FromFile imports title, content and frontmatter fields from Markdown.
	FromFile     string
	Images       []string
	RemoveImages []string
}

// Update edits a note's draft and saves it.
func Update(ctx context.Context, env *Env, id string, opts UpdateOptions) error {
	files, err := pickImages(env, opts.Images)
	if err != nil {
		return err
	}
	ed, err := env.open(ctx, id)
	if err != nil {
		return err
	}
	defer ed.Close()

	if opts.FromFile != "" {
		if err := importFile(ed, opts.FromFile); err != nil {
			return err
		}
	}
	if opts.Title != nil {
		ed.SetTitle(*opts.Title)
	}
	if opts.Content != nil {
		ed.SetContent(*opts.Content)
	}
	if opts.Transcription != nil {
		ed.SetAudioTranscription(*opts.Transcription)
	}
	if opts.Favorite != nil {
		ed.SetFavorite(*opts.Favorite)
	}
	for _, u := range opts.RemoveImages {
		ed.RemoveExistingImage(u)
	}
	if len(files) > 0 {
		ed.SelectImages(files...)
	}
	return ed.Save(ctx)
}

func pickImages(env *Env, paths []string) ([]editor.File, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	root := env.ImageRoot
	if root == "" {
		root = "."
	}
	picker, err := storage.NewPicker(root)
	if err != nil {
		return nil, err
	}
	opened, err := picker.Open(paths...)
	if err != nil {
		return nil, err
	}
	files := make([]editor.File, len(opened))
	for i, f := range opened {
		fmt.Fprintf(env.Out, "Attaching %s (%s)\n", f.Path(), byteSize(f.Size()))
		files[i] = f
	}
	return files, nil
}

func byteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}

func importFile(ed *editor.Editor, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	r, err := parser.Parse(data)
	if err != nil {
		return err
	}
	if r.Title != "" {
		ed.SetTitle(r.Title)
	}
	ed.SetContent(r.Content)
	if r.Favorite != nil {
		ed.SetFavorite(*r.Favorite)
	}
	if r.AudioTranscription != "" {
		ed.SetAudioTranscription(r.AudioTranscription)
	}
	return nil
}

// Favorite toggles a note's favourite flag.
func Favorite(ctx context.Context, env *Env, id string) error {
	ed, err := env.open(ctx, id)
	if err != nil {
		return err
	}
	defer ed.Close()
	return ed.ToggleFavorite(ctx)
}

// Share shares a note's content.
func Share(ctx context.Context, env *Env, id string) error {
	ed, err := env.open(ctx, id)
	if err != nil {
		return err
	}
	defer ed.Close()
	return ed.Share(ctx)
}

// CopyContent copies a note's content to the clipboard.
func CopyContent(ctx context.Context, env *Env, id string) error {
	ed, err := env.open(ctx, id)
	if err != nil {
		return err
	}
	defer ed.Close()
	return ed.CopyTranscript()
}
