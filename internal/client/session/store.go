package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelez/repairdesk/internal/client/api"
	"github.com/avelez/repairdesk/internal/client/storage"
	"github.com/avelez/repairdesk/internal/logging"
	"github.com/avelez/repairdesk/internal/validation"
)

// Storage keys owned by the Store. They are written and cleared as a
// pair; the write order (user first, token last) and clear order (token
// first, user last) guarantee a concurrent reader never sees a token
// without its paired user.
const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

// AuthAPI is the remote authentication collaborator.
type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

// Store is the authentication state machine: Anonymous or Authenticated.
// "Expired" is never a stored state, only a transient judgment made during
// validation that immediately resolves to Anonymous.
type Store struct {
	api AuthAPI
	kv  storage.KV
	log logging.Logger
	now func() time.Time

	mu   sync.RWMutex
	sess Session
	// gen increments on every state transition. Async results captured
	// under an older generation are discarded, so a login or rehydration
	// completing after a concurrent logout cannot resurrect the session.
	gen  uint64
	subs map[string]chan Change
}

// NewStore creates a session store. State starts Anonymous; call
// Rehydrate to pick up a persisted session.
func NewStore(authAPI AuthAPI, kv storage.KV, log logging.Logger) *Store {
	return &Store{
		api:  authAPI,
		kv:   kv,
		log:  log,
		now:  time.Now,
		subs: map[string]chan Change{},
	}
}

// Login authenticates against the server. On success the session is
// persisted and the state flips to Authenticated; on failure the state is
// left untouched and the error is one of ErrInvalidCredentials,
// ErrNetwork or ErrServer.
func (s *Store) Login(ctx context.Context, creds Credentials) error {
	if err := validation.ValidateUsername(creds.Username); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if err := validation.ValidatePassword(creds.Password); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	gen := s.generation()

	resp, err := s.api.Login(ctx, api.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		return authError(err)
	}

	return s.establish(ctx, gen, resp, ReasonLogin)
}

// Register creates an account. Same contract as Login, using the
// registration endpoint.
func (s *Store) Register(ctx context.Context, data RegisterData) error {
	if err := validation.ValidateUsername(data.Username); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if err := validation.ValidatePassword(data.Password); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	gen := s.generation()

	resp, err := s.api.Register(ctx, api.RegisterRequest{
		Username: data.Username,
		Password: data.Password,
		FullName: data.FullName,
	})
	if err != nil {
		return authError(err)
	}

	return s.establish(ctx, gen, resp, ReasonRegister)
}

// Logout always ends in Anonymous locally, even when the best-effort
// remote invalidation fails. It never reports an error to the caller.
func (s *Store) Logout(ctx context.Context) {
	if tok := s.Token(); tok != "" {
		if err := s.api.Logout(ctx, tok); err != nil {
			s.log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", err)
		}
	}

	s.mu.Lock()
	s.sess = Session{}
	s.gen++
	s.mu.Unlock()

	s.clearKeys(ctx)
	s.broadcast(Change{Reason: ReasonLogout})
}

// ForceLogout is the system-initiated session teardown the fault handler
// calls. Idempotent: when already Anonymous it performs no storage writes
// and emits no event. The storage clear completes before subscribers are
// told, so a guard evaluated on the change never observes a stale
// authenticated session.
func (s *Store) ForceLogout(ctx context.Context, reason string) {
	s.mu.Lock()
	if !s.sess.IsAuthenticated {
		s.mu.Unlock()
		return
	}
	s.sess = Session{}
	s.gen++
	s.mu.Unlock()

	s.log.Info(ctx, "session terminated", "reason", reason)
	s.clearKeys(ctx)
	s.broadcast(Change{Reason: reason})
}

// Rehydrate reconstructs the session from persistent storage at startup.
// A missing pair, corrupt record, or failed validation leaves (and heals)
// the store Anonymous. Returns whether the store ended up Authenticated.
func (s *Store) Rehydrate(ctx context.Context) bool {
	gen := s.generation()

	tok, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Warn(ctx, "session storage unavailable, staying anonymous", "error", err)
		}
		return false
	}

	userRaw, err := s.kv.Get(ctx, userKey)
	if err != nil {
		// half a pair is as good as nothing; heal the storage
		s.clearKeys(ctx)
		return false
	}

	var user User
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		s.log.Warn(ctx, "stored user record is corrupt", "error", err)
		s.clearKeys(ctx)
		return false
	}

	candidate := Session{Token: tok, User: &user, IsAuthenticated: true}
	if ok, _ := s.evaluate(candidate); !ok {
		s.clearKeys(ctx)
		return false
	}

	s.mu.Lock()
	if s.gen != gen {
		// a login or logout happened while we were reading storage;
		// its outcome wins
		authenticated := s.sess.IsAuthenticated
		s.mu.Unlock()
		return authenticated
	}
	s.sess = candidate
	s.gen++
	s.mu.Unlock()

	s.log.Debug(ctx, "session rehydrated", "username", user.Username)
	s.broadcast(Change{Session: candidate, Reason: ReasonRehydrated})
	return true
}

// IsAuthenticated reports the current in-memory state. No I/O.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.IsAuthenticated
}

// CurrentUser returns a copy of the cached user, nil when anonymous.
// No I/O.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess.User == nil {
		return nil
	}
	u := *s.sess.User
	return &u
}

// Token returns the current bearer token, "" when anonymous. No I/O.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Token
}

// Subscribe returns the current session snapshot, a channel of future
// changes, and a cancel function tied to the consumer's lifetime.
func (s *Store) Subscribe() (Session, <-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Change, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}

	return s.sess, ch, cancel
}

func (s *Store) establish(ctx context.Context, gen uint64, resp *api.AuthResponse, reason string) error {
	user := User{
		ID:       resp.User.ID,
		Username: resp.User.Username,
		Role:     resp.User.Role,
		IsActive: resp.User.IsActive,
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user record: %w", err)
	}

	// user first, token last
	if err := s.kv.Set(ctx, userKey, string(userJSON)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err := s.kv.Set(ctx, tokenKey, resp.Token); err != nil {
		_ = s.kv.Delete(ctx, userKey)
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		anonymous := !s.sess.IsAuthenticated
		s.mu.Unlock()
		// a concurrent logout won; only remove the keys we just wrote
		// when no newer session owns them
		if anonymous {
			s.clearKeys(ctx)
		}
		return ErrSuperseded
	}
	s.sess = Session{Token: resp.Token, User: &user, IsAuthenticated: true}
	s.gen++
	snap := s.sess
	s.mu.Unlock()

	s.broadcast(Change{Session: snap, Reason: reason})
	return nil
}

// clearKeys removes the stored pair: token first, then user, so a reader
// of partially cleared storage sees "no token" and stays anonymous.
func (s *Store) clearKeys(ctx context.Context) {
	if err := s.kv.Delete(ctx, tokenKey); err != nil {
		s.log.Error(ctx, "failed to clear stored token", "error", err)
	}
	if err := s.kv.Delete(ctx, userKey); err != nil {
		s.log.Error(ctx, "failed to clear stored user", "error", err)
	}
}

func (s *Store) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *Store) broadcast(c Change) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, ch := range s.subs {
		select {
		case ch <- c:
		default:
			s.log.Warn(context.Background(), "dropping session change for slow subscriber", "subscriber", id)
		}
	}
}

// authError maps a failure of the authentication collaborator onto the
// store's error taxonomy.
func authError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: server rejected the credentials (%d)", ErrInvalidCredentials, apiErr.Status)
		default:
			return fmt.Errorf("%w: status %d", ErrServer, apiErr.Status)
		}
	}
	if errors.Is(err, api.ErrNoResponse) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return err
}
