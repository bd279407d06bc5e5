package hivekeeper

import "time"

// SessionState is the derived state of a session at a point in time.
type SessionState string

const (
	// SessionActive means the flag is set and the expiry is in the future
	SessionActive SessionState = "active"
	// SessionExpired means the expiry has elapsed, flag irrelevant
	SessionExpired SessionState = "expired"
	// SessionInvalidated means the flag was explicitly cleared
	SessionInvalidated SessionState = "invalidated"
)

// ActiveAt recomputes validity from the stored flag and expiry. now is
// injected so the state machine stays testable without a real clock.
// Authorization must always go through here: the flag alone does not cover
// passive expiry, and the expiry alone does not cover explicit revocation.
func (s *Session) ActiveAt(now time.Time) bool {
	return s.StateAt(now) == SessionActive
}

// StateAt classifies the session at the given instant. Expiry wins over the
// flag so a row that is both revoked and expired reports SessionExpired,
// which is what the cleanup sweep keys on.
func (s *Session) StateAt(now time.Time) SessionState {
	if !now.Before(s.ExpiresAt) {
		return SessionExpired
	}
	if !s.Valid {
		return SessionInvalidated
	}
	return SessionActive
}
