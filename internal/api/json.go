package api

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/starford/ainotes/internal/apperr"
)

const maxResponseBytes = 10 << 20 // 10 MB

func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(io.LimitReader(r, maxResponseBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrMalformedResponse, err)
	}
	return nil
}

// errResponse covers both error shapes the backend uses.
type errResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func errorMessage(body []byte) string {
	var e errResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
