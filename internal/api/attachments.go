package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
)

const maxUploadBytes = 50 << 20 // 50 MB

// ImageFile is a local image chosen for upload.
type ImageFile interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// encodeUpdateForm writes the multipart body for an update carrying new images.
// Field order follows the backend's form parser: scalar fields, then the files
// under "images", then the surviving image URLs as a JSON string.
func encodeUpdateForm(req UpdateNoteRequest, files []ImageFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"id", req.ID},
		{"title", req.Title},
		{"content", req.Content},
		{"favorite", strconv.FormatBool(req.Favorite)},
		{"audioTranscription", req.AudioTranscription},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	for _, f := range files {
		if err := writeImagePart(mw, f); err != nil {
			return nil, "", err
		}
		if buf.Len() > maxUploadBytes {
			return nil, "", fmt.Errorf("images exceed %d bytes", maxUploadBytes)
		}
	}

	urls := req.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	encoded, err := json.Marshal(urls)
	if err != nil {
		return nil, "", fmt.Errorf("encode image urls: %w", err)
	}
	if err := mw.WriteField("imageUrls", string(encoded)); err != nil {
		return nil, "", fmt.Errorf("write field imageUrls: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func writeImagePart(mw *multipart.Writer, f ImageFile) error {
	name := filepath.Base(f.Name())
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="images"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", contentTypeFor(name))

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open image %s: %w", name, err)
	}
	defer rc.Close()

	if _, err := io.Copy(part, io.LimitReader(rc, maxUploadBytes+1)); err != nil {
		return fmt.Errorf("copy image %s: %w", name, err)
	}
	return nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
