package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoResponse indicates a transport-level failure: the request never
// produced an HTTP response (connection refused, DNS failure, timeout).
var ErrNoResponse = errors.New("no response from server")

// Error is a non-2xx HTTP response from the server. The raw body is kept
// so the fault handler can extract a message from it.
type Error struct {
	Status int
	URL    string
	Body   []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d for %s", e.Status, e.URL)
}

// Public endpoints never carry credentials: authentication is exactly what
// they establish.
var publicPaths = []string{"/auth/login", "/auth/register"}

// IsPublicPath reports whether the request path belongs to the
// public-endpoint allow-list.
func IsPublicPath(path string) bool {
	for _, p := range publicPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// IsLoginPath reports whether the URL targets the login endpoint. A 401
// from it is a failed login attempt, not a dying session.
func IsLoginPath(url string) bool {
	return strings.Contains(url, "/auth/login")
}
