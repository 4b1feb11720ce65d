package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Picker selects image files under a root directory.
type Picker struct {
	root string // absolute
}

// NewPicker creates a Picker rooted at dir. The directory must exist.
func NewPicker(dir string) (*Picker, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Picker{root: abs}, nil
}

// Root returns the absolute picker root.
func (p *Picker) Root() string { return p.root }

// safePath resolves rel against the root and rejects results that escape it.
// Absolute paths are taken as given.
func (p *Picker) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("storage: empty path")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return cleaned, nil
	}
	abs, err := filepath.Abs(filepath.Join(p.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, p.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	return abs, nil
}

// List walks the root and returns every image file, sorted by relative path.
// Hidden directories are skipped.
func (p *Picker) List() ([]string, error) {
	var out []string
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != p.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsImage(d.Name()) {
			return nil
		}
		rel, _ := filepath.Rel(p.root, path)
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// Open resolves each path to a File. Every path must name an existing
// regular file with an image extension.
func (p *Picker) Open(paths ...string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, rel := range paths {
		abs, err := p.safePath(rel)
		if err != nil {
			return nil, err
		}
		if !IsImage(abs) {
			return nil, fmt.Errorf("storage: not an image: %s", rel)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", rel, err)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("storage: not a regular file: %s", rel)
		}
		files = append(files, File{path: abs, size: info.Size()})
	}
	return files, nil
}

// WriteFile atomically writes content to path: tmp file, fsync, rename.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ainotes-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
