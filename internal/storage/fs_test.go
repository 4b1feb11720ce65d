package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func tempPicker(t *testing.T) (*Picker, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := NewPicker(dir)
	if err != nil {
		t.Fatalf("NewPicker: %v", err)
	}
	return p, dir
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	p, dir := tempPicker(t)
	touch(t, filepath.Join(dir, "b.png"), "b")
	touch(t, filepath.Join(dir, "sub", "a.JPG"), "a")
	touch(t, filepath.Join(dir, "notes.md"), "skip")
	touch(t, filepath.Join(dir, ".cache", "hidden.png"), "skip")

	got, err := p.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"b.png", filepath.Join("sub", "a.JPG")}
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOpen(t *testing.T) {
	p, dir := tempPicker(t)
	touch(t, filepath.Join(dir, "photo.jpg"), "jpeg-bytes")

	files, err := p.Open("photo.jpg")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("len = %d, want 1", len(files))
	}
	f := files[0]
	if f.Name() != "photo.jpg" {
		t.Errorf("Name = %q", f.Name())
	}
	if f.Size() != int64(len("jpeg-bytes")) {
		t.Errorf("Size = %d", f.Size())
	}
	rc, err := f.Open()
	if err != nil {
		t.Fatalf("File.Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "jpeg-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestOpenAbsolutePath(t *testing.T) {
	p, _ := tempPicker(t)
	other := filepath.Join(t.TempDir(), "x.png")
	touch(t, other, "x")

	files, err := p.Open(other)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if files[0].Path() != other {
		t.Errorf("Path = %q, want %q", files[0].Path(), other)
	}
}

func TestOpenRejects(t *testing.T) {
	p, dir := tempPicker(t)
	touch(t, filepath.Join(dir, "doc.txt"), "txt")
	if err := os.Mkdir(filepath.Join(dir, "dir.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	cases := []string{
		"../../etc/passwd.png",
		"doc.txt",
		"missing.png",
		"dir.png",
		"",
	}
	for _, path := range cases {
		if _, err := p.Open(path); err == nil {
			t.Errorf("Open(%q): expected error", path)
		}
	}
}

func TestMemFile(t *testing.T) {
	m := MemFile{Filename: "a.gif", Data: []byte("GIF89a")}
	rc, _ := m.Open()
	data, _ := io.ReadAll(rc)
	if m.Name() != "a.gif" || string(data) != "GIF89a" {
		t.Errorf("MemFile = %q %q", m.Name(), data)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "note.md")
	if err := WriteFile(path, []byte("# Hi\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "# Hi\n" {
		t.Errorf("content = %q", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}
