package api

import "net/http"

// setBearer attaches the session token as an "Authorization: Bearer <token>" header.
func setBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}
