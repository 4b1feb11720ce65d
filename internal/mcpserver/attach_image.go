package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ainotes/internal/storage"
)

const maxImageSize = 10 << 20

var (
	extByMIME = map[string]string{
		"image/png":     ".png",
		"image/jpeg":    ".jpg",
		"image/gif":     ".gif",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
	}

	unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

	errBlockedAddress = errors.New("blocked address")
)

type attachResult struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

func (s *Server) attachImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var data []byte
	var mimeExt string
	if strings.HasPrefix(rawURL, "data:") {
		data, mimeExt, err = decodeDataURI(rawURL)
	} else {
		data, mimeExt, err = s.fetch(ctx, rawURL)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(data) > maxImageSize {
		return mcp.NewToolResultError(fmt.Sprintf("image too large: %d bytes (max %d)", len(data), maxImageSize)), nil
	}

	name := imageName(req.GetString("filename", ""), rawURL, mimeExt)
	if !storage.IsImage(name) {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported image type: %q (allowed: png, jpg, jpeg, gif, webp, svg)", filepath.Ext(name))), nil
	}
	if err := sniffImage(data, strings.ToLower(filepath.Ext(name))); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ed, rec, err := s.open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer ed.Close()

	ed.SelectImages(storage.MemFile{Filename: name, Data: data})
	res := outcome(rec, ed.Save(ctx))
	if res.IsError {
		return res, nil
	}
	msg, _ := rec.Last()
	out, _ := json.Marshal(attachResult{Filename: name, Message: msg.Text})
	return mcp.NewToolResultText(string(out)), nil
}

// decodeDataURI decodes data:<mime>;base64,<payload>. It returns the
// extension implied by the MIME type.
func decodeDataURI(uri string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", errors.New("invalid data URI: missing comma")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", errors.New("data URI must be base64 encoded")
	}
	mimeType, _, _ = strings.Cut(mimeType, ";")
	ext, ok := extByMIME[mimeType]
	if !ok {
		return nil, "", fmt.Errorf("unsupported data URI type: %q", mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	return data, ext, nil
}

// guardedDial refuses connections to loopback, link-local and unspecified
// addresses after DNS resolution, so redirects cannot reach them either.
func guardedDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return fmt.Errorf("%w: %s", errBlockedAddress, host)
	}
	return nil
}

var imageClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
			Control: guardedDial,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	CheckRedirect: func(_ *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return errors.New("too many redirects")
		}
		return nil
	},
}

// fetchHTTP downloads an image over http(s). It returns the extension implied
// by the response Content-Type, if any.
func fetchHTTP(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", fmt.Errorf("unsupported scheme %q (only http and https)", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}
	resp, err := imageClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("download: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", fmt.Errorf("image too large: exceeds %d bytes", maxImageSize)
	}
	mimeType, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	return data, extByMIME[strings.TrimSpace(mimeType)], nil
}

// imageName picks the upload filename: the caller's choice, else the URL's
// last path segment, else a random name with the detected extension.
func imageName(requested, rawURL, mimeExt string) string {
	name := requested
	if name == "" && !strings.HasPrefix(rawURL, "data:") {
		if u, err := url.Parse(rawURL); err == nil {
			if base := path.Base(u.Path); strings.Contains(base, ".") {
				name = base
			}
		}
	}
	if name == "" {
		ext := mimeExt
		if ext == "" {
			ext = ".bin"
		}
		return uuid.NewString() + ext
	}
	name = unsafeNameRe.ReplaceAllString(filepath.Base(name), "_")
	if strings.Trim(name, "._") == "" {
		return uuid.NewString() + mimeExt
	}
	return name
}

// sniffImage checks that data really is an image of the type ext names.
func sniffImage(data []byte, ext string) error {
	if ext == ".svg" {
		head := data[:min(len(data), 1024)]
		if !bytes.Contains(head, []byte("<svg")) {
			return errors.New("content is not an SVG image")
		}
		return nil
	}
	detected, _, _ := strings.Cut(http.DetectContentType(data), ";")
	got := extByMIME[detected]
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	if got != ext {
		return fmt.Errorf("content does not match %s (detected %s)", ext, detected)
	}
	return nil
}
