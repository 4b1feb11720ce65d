// Package storage resolves local image files for upload and writes exported
// notes to disk.
package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// imageExts lists the extensions accepted by the image picker.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// IsImage reports whether name carries an accepted image extension.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// File is a local image chosen for upload.
type File struct {
	path string
	size int64
}

// Name returns the base name sent as the upload filename.
func (f File) Name() string { return filepath.Base(f.path) }

// Path returns the absolute path of the file.
func (f File) Path() string { return f.path }

// Size returns the file size at selection time.
func (f File) Size() int64 { return f.size }

// Open opens the file for reading.
func (f File) Open() (io.ReadCloser, error) { return os.Open(f.path) }

// MemFile is an in-memory image, used for images fetched or decoded rather
// than picked from disk.
type MemFile struct {
	Filename string
	Data     []byte
}

// Name implements the upload file contract.
func (m MemFile) Name() string { return m.Filename }

// Open implements the upload file contract.
func (m MemFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.Data)), nil
}
