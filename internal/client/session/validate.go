package session

import (
	"context"

	"github.com/avelez/repairdesk/internal/client/token"
)

// ValidateCurrentSession answers "is the current session usable". It is
// the single authority the other components call before trusting a cached
// session; the checks must not be duplicated elsewhere.
//
// Check order, short-circuiting: token present, token not expired, cached
// user present and active. Any failing check clears the session and
// returns false.
func (s *Store) ValidateCurrentSession(ctx context.Context) bool {
	s.mu.RLock()
	snap := s.sess
	s.mu.RUnlock()

	ok, reason := s.evaluate(snap)
	if ok {
		return true
	}

	if snap.IsAuthenticated {
		s.ForceLogout(ctx, reason)
	}
	return false
}

// evaluate judges a session snapshot without touching state.
func (s *Store) evaluate(sess Session) (ok bool, reason string) {
	if sess.Token == "" {
		return false, ReasonSessionExpired
	}
	if token.IsExpired(sess.Token, s.now()) {
		return false, ReasonSessionExpired
	}
	if sess.User == nil {
		return false, ReasonSessionExpired
	}
	// an inactive user invalidates the session even with a live token
	if !sess.User.IsActive {
		return false, ReasonUserInactive
	}
	return true, ""
}
