// Package sidebar provides the app's navigation entries and the logout action.
package sidebar

import (
	"context"
	"log/slog"

	"github.com/starford/ainotes/internal/notify"
)

// Route is a navigation target.
type Route string

const (
	RouteHome      Route = "/"
	RouteFavorites Route = "/favorites"
	RouteSignIn    Route = "/signin"
)

// MsgLoggedOut is shown after logout.
const MsgLoggedOut = "Logged out successfully"

// Item is one navigation entry.
type Item struct {
	Label string
	Route Route
}

// Items returns the navigation entries in display order.
func Items() []Item {
	return []Item{
		{Label: "Home", Route: RouteHome},
		{Label: "Favorites", Route: RouteFavorites},
	}
}

// TokenClearer removes the stored session token.
type TokenClearer interface {
	Clear(ctx context.Context) error
}

// Sidebar performs navigation and session termination.
type Sidebar struct {
	tokens   TokenClearer
	notifier notify.Notifier
	navigate func(Route)
	logger   *slog.Logger
}

// New creates a Sidebar. navigate may be nil when there is nothing to route.
func New(tokens TokenClearer, n notify.Notifier, navigate func(Route), logger *slog.Logger) *Sidebar {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if navigate == nil {
		navigate = func(Route) {}
	}
	return &Sidebar{tokens: tokens, notifier: n, navigate: navigate, logger: logger}
}

// Navigate moves to r.
func (s *Sidebar) Navigate(r Route) {
	s.navigate(r)
}

// Logout clears the session token, confirms, and routes to sign-in. It never
// fails from the user's point of view; a store error is only logged.
func (s *Sidebar) Logout(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Error("clear session token", "err", err)
	}
	s.notifier.Success(MsgLoggedOut)
	s.navigate(RouteSignIn)
}
