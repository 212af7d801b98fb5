package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionSource is the read side of the session store the transport
// consults per outgoing call.
type SessionSource interface {
	// Token returns the current bearer token, "" when anonymous.
	Token() string

	// ValidateCurrentSession reports whether the cached session is
	// usable; an unusable one is cleared as a side effect.
	ValidateCurrentSession(ctx context.Context) bool
}

// FailureSink receives authorization failures observed on the wire.
// It is expected to suppress duplicates itself; the transport keeps no
// counter of its own.
type FailureSink interface {
	Handle(ctx context.Context, err error)
}

// AuthTransport decides, per outgoing call, whether to attach the bearer
// credential. Requests to public endpoints and requests that already carry
// credentials pass through unmodified.
//
// Expiry policy is proactive and uniform: the session is validated before
// credentials are attached, so a token known to be dead is cleared locally
// and never sent. The server's 401 remains the backstop for clock skew.
type AuthTransport struct {
	Base     http.RoundTripper
	Sessions SessionSource
	Faults   FailureSink // optional
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-Id", uuid.NewString())

	public := IsPublicPath(req.URL.Path)

	if !public && req.Header.Get("Authorization") == "" {
		if t.Sessions.ValidateCurrentSession(req.Context()) {
			if token := t.Sessions.Token(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
		// no usable token: send bare, the server rejects if the
		// endpoint is protected
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !public && t.Faults != nil {
		t.Faults.Handle(req.Context(), &Error{Status: http.StatusUnauthorized, URL: req.URL.String()})
	}

	return resp, nil
}
