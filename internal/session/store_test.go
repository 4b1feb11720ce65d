package session

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/starford/ainotes/internal/apperr"
)

func testStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_EmptyHasNoSession(t *testing.T) {
	s := testStore(t)
	_, err := s.Token(context.Background())
	require.ErrorIs(t, err, apperr.ErrNoSession)
}

func TestStore_SetAndReplace(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "first"))
	require.NoError(t, s.SetToken(ctx, "second"))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", tok)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "abc"))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Token(ctx)
	require.ErrorIs(t, err, apperr.ErrNoSession)
}

func TestStore_EmptyTokenClears(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "abc"))
	require.NoError(t, s.SetToken(ctx, ""))
	_, err := s.Token(ctx)
	require.ErrorIs(t, err, apperr.ErrNoSession)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken(context.Background(), "kept"))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	tok, err := s2.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "kept", tok)
}

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, ok := Expiry(tok)
	require.True(t, ok)
	require.True(t, got.Equal(exp))
	require.False(t, Expired(tok, exp.Add(-time.Minute)))
	require.True(t, Expired(tok, exp.Add(time.Minute)))
}

func TestExpiry_OpaqueOrNoExp(t *testing.T) {
	_, ok := Expiry("not-a-jwt")
	require.False(t, ok)
	require.False(t, Expired("not-a-jwt", time.Now()))

	_, ok = Expiry(signed(t, jwt.RegisteredClaims{Subject: "u1"}))
	require.False(t, ok)
}

func TestWatch_ReportsClear(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SetToken(context.Background(), "abc"))

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, s.Path(), logger, func() { calls.Add(1) })
	}()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, s.Clear(context.Background()))

	require.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 20*time.Millisecond)
	cancel()
	<-done
}

func TestSameDB(t *testing.T) {
	require.True(t, sameDB("/x/s.db", "/x/s.db"))
	require.True(t, sameDB("/x/s.db", "/x/s.db-wal"))
	require.True(t, sameDB("/x/s.db", "/x/s.db-journal"))
	require.False(t, sameDB("/x/s.db", "/x/other.db"))
}
