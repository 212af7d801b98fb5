package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)

		json.NewEncoder(w).Encode(AuthResponse{
			Token: "tok-123",
			User:  User{ID: "1", Username: "alice", Role: "admin", IsActive: true},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Login(context.Background(), LoginRequest{Username: "alice", Password: "workshop-42"})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.IsActive)
}

func TestClient_NonOKBecomesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"client already exists"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.ListClients(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Contains(t, apiErr.URL, "/api/v1/clients")
	assert.JSONEq(t, `{"message":"client already exists"}`, string(apiErr.Body))
}

func TestClient_TransportFailureWrapsErrNoResponse(t *testing.T) {
	// a closed server refuses connections
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)

	_, err := client.ListClients(context.Background())
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestClient_LogoutSendsToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	require.NoError(t, client.Logout(context.Background(), "tok-123"))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestIsPublicPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/api/v1/auth/login", want: true},
		{path: "/api/v1/auth/register", want: true},
		{path: "/api/v1/auth/logout", want: false},
		{path: "/api/v1/clients", want: false},
		{path: "/", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPublicPath(tt.path))
		})
	}
}

func TestIsLoginPath(t *testing.T) {
	assert.True(t, IsLoginPath("http://localhost:8080/api/v1/auth/login"))
	assert.False(t, IsLoginPath("http://localhost:8080/api/v1/clients"))
}
