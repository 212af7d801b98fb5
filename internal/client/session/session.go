// Package session holds the client's authentication state machine.
//
// The Store is the sole writer of session state and of the auth keys in
// persistent storage. Everything else reads snapshots, subscribes to
// changes, or calls the public mutators.
package session

import "errors"

// User is the cached user record, stored verbatim from the server at
// login/rehydration time.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// Credentials are transient login data, never persisted.
type Credentials struct {
	Username string
	Password string
}

// RegisterData is the input for account registration.
type RegisterData struct {
	Username string
	Password string
	FullName string
}

// Session is a snapshot of the authentication state. The invariant
// IsAuthenticated == (Token != "" && User != nil) holds for every
// externally observable snapshot.
type Session struct {
	Token           string
	User            *User
	IsAuthenticated bool
}

// Reason codes carried by session changes, consumed by the navigation/UI
// layer to decide what to do next.
const (
	ReasonLogin          = "login"
	ReasonRegister       = "register"
	ReasonLogout         = "logout"
	ReasonRehydrated     = "rehydrated"
	ReasonSessionExpired = "session_expired"
	ReasonUserInactive   = "user_inactive"
)

// Change is a tagged session-changed event delivered to subscribers.
type Change struct {
	Session Session
	Reason  string
}

var (
	// ErrInvalidCredentials indicates the server (or local validation)
	// rejected the supplied credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNetwork indicates the authentication endpoint never responded.
	ErrNetwork = errors.New("network error")

	// ErrServer indicates the authentication endpoint failed server-side.
	ErrServer = errors.New("server error")

	// ErrSuperseded indicates an async result arrived after a concurrent
	// logout and was discarded instead of resurrecting the session.
	ErrSuperseded = errors.New("session attempt superseded")
)
