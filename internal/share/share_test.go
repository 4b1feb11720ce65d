package share

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestShare_FallsBackToClipboard(t *testing.T) {
	clip := &fakeClipboard{}
	s := New("", WithClipboard(clip))
	require.False(t, s.Available())

	m, err := s.Share(context.Background(), Payload{Title: "t", Text: "Milk, eggs"})
	require.NoError(t, err)
	require.Equal(t, MethodClipboard, m)
	require.Equal(t, "Milk, eggs", clip.text)
}

func TestShare_ClipboardError(t *testing.T) {
	s := New("", WithClipboard(&fakeClipboard{err: errors.New("no display")}))
	m, err := s.Share(context.Background(), Payload{Text: "x"})
	require.Error(t, err)
	require.Equal(t, MethodClipboard, m)
}

func TestShare_NativeCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	out := filepath.Join(t.TempDir(), "shared.txt")
	script := filepath.Join(t.TempDir(), "share.sh")
	require.NoError(t, os.WriteFile(script,
		[]byte("#!/bin/sh\n{ echo \"$NOTE_TITLE|$NOTE_URL\"; cat; } > "+out+"\n"), 0o755))

	clip := &fakeClipboard{}
	s := New(script, WithClipboard(clip))
	require.True(t, s.Available())

	m, err := s.Share(context.Background(), Payload{Title: "Shopping", Text: "Milk", URL: "http://x/notes/42"})
	require.NoError(t, err)
	require.Equal(t, MethodNative, m)
	require.Empty(t, clip.text)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "Shopping|http://x/notes/42\nMilk", string(data))
}

func TestShare_NativeFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	s := New("false", WithClipboard(&fakeClipboard{}))
	m, err := s.Share(context.Background(), Payload{Text: "x"})
	require.Error(t, err)
	require.Equal(t, MethodNative, m)
}
