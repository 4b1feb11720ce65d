package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/starford/ainotes/internal/apperr"
)

// StatusError is returned when the backend answers with anything but 200.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Code)
	}
	return fmt.Sprintf("api: status %d: %s", e.Code, e.Message)
}

// Unwrap maps the status code onto the shared sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.ErrUnauthorized
	default:
		return apperr.ErrUnexpectedStatus
	}
}

func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &StatusError{
		Code:    resp.StatusCode,
		Message: errorMessage(body),
	}
}
