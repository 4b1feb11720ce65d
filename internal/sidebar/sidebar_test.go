package sidebar

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/ainotes/internal/notify"
)

type fakeTokens struct {
	cleared int
	err     error
}

func (f *fakeTokens) Clear(context.Context) error {
	f.cleared++
	return f.err
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ok", nil},
		{"store error", errors.New("disk full")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &fakeTokens{err: tt.err}
			rec := &notify.Recorder{}
			var routes []Route
			s := New(tokens, rec, func(r Route) { routes = append(routes, r) }, nil)

			s.Logout(context.Background())

			if tokens.cleared != 1 {
				t.Errorf("cleared = %d, want 1", tokens.cleared)
			}
			msgs := rec.Messages()
			if len(msgs) != 1 || msgs[0] != (notify.Message{Level: notify.LevelSuccess, Text: MsgLoggedOut}) {
				t.Errorf("messages = %+v", msgs)
			}
			if len(routes) != 1 || routes[0] != RouteSignIn {
				t.Errorf("routes = %v, want [%s]", routes, RouteSignIn)
			}
		})
	}
}

func TestItems(t *testing.T) {
	items := Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Route != RouteHome || items[1].Route != RouteFavorites {
		t.Errorf("items = %+v", items)
	}
}

func TestNavigate(t *testing.T) {
	var got Route
	s := New(&fakeTokens{}, &notify.Recorder{}, func(r Route) { got = r }, nil)
	s.Navigate(RouteFavorites)
	if got != RouteFavorites {
		t.Errorf("route = %q", got)
	}
}
