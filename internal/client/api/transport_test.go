package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessions implements SessionSource.
type fakeSessions struct {
	token string
	valid bool

	validateCalls int
}

func (f *fakeSessions) Token() string {
	if !f.valid {
		return ""
	}
	return f.token
}

func (f *fakeSessions) ValidateCurrentSession(ctx context.Context) bool {
	f.validateCalls++
	return f.valid
}

// fakeSink implements FailureSink.
type fakeSink struct {
	mu   sync.Mutex
	errs []error
}

func (f *fakeSink) Handle(ctx context.Context, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs)
}

func newTransportClient(t *testing.T, handler http.HandlerFunc, sessions *fakeSessions, sink *fakeSink) (*http.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tr := &AuthTransport{Sessions: sessions, Faults: sink}
	return &http.Client{Transport: tr}, server
}

func TestAuthTransport_AttachesBearerOnProtected(t *testing.T) {
	var gotAuth, gotRequestID string
	sessions := &fakeSessions{token: "tok-123", valid: true}

	client, server := newTransportClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
	}, sessions, nil)

	resp, err := client.Get(server.URL + "/api/v1/clients")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, 1, sessions.validateCalls)
}

func TestAuthTransport_PublicPathPassesThrough(t *testing.T) {
	var gotAuth string
	sessions := &fakeSessions{token: "tok-123", valid: true}

	client, server := newTransportClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}, sessions, nil)

	resp, err := client.Post(server.URL+"/api/v1/auth/login", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, gotAuth)
	assert.Equal(t, 0, sessions.validateCalls, "public calls must not touch the session")
}

func TestAuthTransport_InvalidSessionSendsBare(t *testing.T) {
	var gotAuth string
	// validation fails: the token was cleared before the call left
	sessions := &fakeSessions{token: "expired", valid: false}

	client, server := newTransportClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}, sessions, nil)

	resp, err := client.Get(server.URL + "/api/v1/clients")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, gotAuth)
}

func TestAuthTransport_ExistingCredentialsUntouched(t *testing.T) {
	var gotAuth string
	sessions := &fakeSessions{token: "tok-123", valid: true}

	client, server := newTransportClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}, sessions, nil)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/v1/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer explicit")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer explicit", gotAuth)
	assert.Equal(t, 0, sessions.validateCalls)
}

func TestAuthTransport_UnauthorizedReachesFaultSink(t *testing.T) {
	sessions := &fakeSessions{token: "tok-123", valid: true}
	sink := &fakeSink{}

	client, server := newTransportClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, sessions, sink)

	resp, err := client.Get(server.URL + "/api/v1/clients")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, 1, sink.count())

	var apiErr *Error
	require.ErrorAs(t, sink.errs[0], &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestAuthTransport_UnauthorizedOnPublicPathIgnored(t *testing.T) {
	sessions := &fakeSessions{}
	sink := &fakeSink{}

	client, server := newTransportClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, sessions, sink)

	resp, err := client.Post(server.URL+"/api/v1/auth/login", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 0, sink.count())
}
