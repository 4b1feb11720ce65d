package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/starford/ainotes/internal/apperr"
	"github.com/starford/ainotes/internal/session"
	"github.com/starford/ainotes/internal/sidebar"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptToken asks for a token without echo.
func promptToken(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Session token: "); err != nil {
		return "", err
	}
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Login stores token, prompting for it when empty.
func Login(ctx context.Context, env *Env, token string) error {
	if token == "" {
		var err error
		if token, err = promptToken(env.Out); err != nil {
			return err
		}
	}
	if token == "" {
		return errors.New("token is required")
	}
	if err := env.Sessions.SetToken(ctx, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	env.notifier().Success("Logged in")
	if exp, ok := session.Expiry(token); ok {
		fmt.Fprintf(env.Out, "Token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

// Logout clears the stored token.
func Logout(ctx context.Context, env *Env) error {
	sidebar.New(env.Sessions, env.notifier(), nil, env.logger()).Logout(ctx)
	return nil
}

// Whoami reports whether a token is stored and when it expires.
func Whoami(ctx context.Context, env *Env, now time.Time) error {
	token, err := env.Sessions.Token(ctx)
	if errors.Is(err, apperr.ErrNoSession) {
		fmt.Fprintln(env.Out, "Not signed in")
		return err
	}
	if err != nil {
		return err
	}
	exp, ok := session.Expiry(token)
	switch {
	case !ok:
		fmt.Fprintln(env.Out, "Signed in (token expiry unknown)")
	case !exp.After(now):
		fmt.Fprintf(env.Out, "Signed in, token expired %s\n", exp.Local().Format(time.RFC1123))
	default:
		fmt.Fprintf(env.Out, "Signed in, token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
